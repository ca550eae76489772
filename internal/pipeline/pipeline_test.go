package pipeline

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ivlev/sketch2html/internal/analyzer"
	"github.com/ivlev/sketch2html/internal/config"
	"github.com/ivlev/sketch2html/internal/source"
	"github.com/ivlev/sketch2html/internal/storage"
)

type fakeExtractor struct {
	text  string
	err   error
	calls atomic.Int32
}

func (f *fakeExtractor) Extract(ctx context.Context, img *source.Image) (string, error) {
	f.calls.Add(1)
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

// recordingStore counts writes and keeps documents in memory
type recordingStore struct {
	mu     sync.Mutex
	saves  int
	writes map[string]string
}

func (s *recordingStore) Save(ctx context.Context, data []byte) (storage.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	return storage.Handle{ID: "upload-1", Location: "mem://uploads/upload-1.png"}, nil
}

func (s *recordingStore) Write(ctx context.Context, name, content string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writes == nil {
		s.writes = map[string]string{}
	}
	s.writes[name] = content
	return "mem://outputs/" + name, nil
}

// squarePNG encodes a 100x100 white image with a black 20x20 square at (10,10)
func squarePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(10, 10, 30, 30), &image.Uniform{C: color.Black}, image.Point{}, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newTestPipeline(t *testing.T, ext TextExtractor) *Pipeline {
	t.Helper()
	p, err := New(config.Default(), WithExtractor(ext))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return p
}

func TestRunSquare(t *testing.T) {
	p := newTestPipeline(t, &fakeExtractor{text: "Sign up"})

	doc, err := p.Run(context.Background(), squarePNG(t))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if n := strings.Count(doc, `class="region"`); n != 1 {
		t.Errorf("Expected 1 container, got %d", n)
	}
	if !strings.Contains(doc, "width:20px;height:20px;") {
		t.Error("Container should be 20x20")
	}
	if !strings.Contains(doc, "Region at (10, 10)") {
		t.Error("Missing region label")
	}
	if !strings.Contains(doc, "<p>Sign up</p>") {
		t.Error("Missing extracted text")
	}
}

func TestRunBlankImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 40, 40))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	p := newTestPipeline(t, &fakeExtractor{})
	doc, err := p.Run(context.Background(), buf.Bytes())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if strings.Contains(doc, `class="region"`) {
		t.Error("Blank image should have no containers")
	}
	if !strings.Contains(doc, "<p></p>") {
		t.Error("Expected an empty paragraph")
	}
}

func TestRunErrors(t *testing.T) {
	unavailable := &fakeExtractor{err: ErrRecognitionUnavailable}

	tests := []struct {
		name string
		ext  *fakeExtractor
		data []byte
		want error
	}{
		{"empty", &fakeExtractor{}, nil, ErrEmptyInput},
		{"garbage", &fakeExtractor{}, []byte("definitely not an image"), ErrDecode},
		{"truncated", &fakeExtractor{}, squarePNG(t)[:40], ErrDecode},
		{"ocr unavailable", unavailable, nil, ErrRecognitionUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.data
			if tt.name == "ocr unavailable" {
				data = squarePNG(t)
			}

			doc, err := newTestPipeline(t, tt.ext).Run(context.Background(), data)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
			if doc != "" {
				t.Error("Failed run must not return a document")
			}
		})
	}
}

func TestRunDecodeFailureSkipsExtraction(t *testing.T) {
	ext := &fakeExtractor{text: "x"}
	p := newTestPipeline(t, ext)

	if _, err := p.Run(context.Background(), []byte("nope")); err == nil {
		t.Fatal("Expected error")
	}
	if ext.calls.Load() != 0 {
		t.Error("Extractor should not run when decoding fails")
	}
}

func TestAnalyze(t *testing.T) {
	p := newTestPipeline(t, &fakeExtractor{text: "Pricing"})

	layout, err := p.Analyze(context.Background(), squarePNG(t))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if layout.Width != 100 || layout.Height != 100 {
		t.Errorf("Unexpected size %dx%d", layout.Width, layout.Height)
	}
	if layout.Text != "Pricing" {
		t.Errorf("Unexpected text %q", layout.Text)
	}
	if len(layout.Regions) != 1 || layout.Regions[0] != (analyzer.Region{X: 10, Y: 10, W: 20, H: 20}) {
		t.Errorf("Unexpected regions %v", layout.Regions)
	}
}

func TestConvert(t *testing.T) {
	store := &recordingStore{}
	p := newTestPipeline(t, &fakeExtractor{text: "Hello"})

	res, err := p.Convert(context.Background(), store, squarePNG(t), "home.png")
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	if res.Upload.ID != "upload-1" {
		t.Errorf("Unexpected upload handle %+v", res.Upload)
	}
	if res.Output != "mem://outputs/home.html" {
		t.Errorf("Unexpected output location %s", res.Output)
	}
	if store.writes["home.html"] != res.Document {
		t.Error("Stored document differs from result")
	}
}

func TestConvertFailureWritesNothing(t *testing.T) {
	tests := []struct {
		name string
		ext  *fakeExtractor
		data []byte
	}{
		{"decode", &fakeExtractor{}, []byte("garbage")},
		{"ocr", &fakeExtractor{err: errors.New("engine crashed")}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.data
			if data == nil {
				data = squarePNG(t)
			}

			store := &recordingStore{}
			res, err := newTestPipeline(t, tt.ext).Convert(context.Background(), store, data, "")
			if err == nil {
				t.Fatal("Expected error")
			}
			if res != nil {
				t.Error("Failed conversion must not return a result")
			}
			if len(store.writes) != 0 {
				t.Errorf("Expected no writes, got %v", store.writes)
			}
		})
	}
}

func TestConvertEmptyInputSkipsStore(t *testing.T) {
	store := &recordingStore{}
	_, err := newTestPipeline(t, &fakeExtractor{}).Convert(context.Background(), store, nil, "")
	if !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Expected ErrEmptyInput, got %v", err)
	}
	if store.saves != 0 {
		t.Error("Empty input should not be saved")
	}
}

func TestConvertWithoutStore(t *testing.T) {
	res, err := newTestPipeline(t, &fakeExtractor{}).Convert(context.Background(), nil, squarePNG(t), "")
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if res.Output != "" || res.Document == "" {
		t.Errorf("Unexpected result %+v", res)
	}
}

func TestRunConcurrent(t *testing.T) {
	p := newTestPipeline(t, &fakeExtractor{text: "same"})
	data := squarePNG(t)

	want, err := p.Run(context.Background(), data)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := p.Run(context.Background(), data)
			if err != nil {
				errs <- err
				return
			}
			if got != want {
				errs <- errors.New("concurrent run produced a different document")
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Threshold = 0
	if _, err := New(cfg); err == nil {
		t.Error("Expected error for invalid config")
	}

	cfg = config.Default()
	cfg.Recognition.Engine = "none"
	if _, err := New(cfg); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		name, id, want string
	}{
		{"home.png", "abc", "home.html"},
		{"scan.v2.pdf", "abc", "scan.v2.html"},
		{"", "abc", "abc.html"},
		{"", "", "layout.html"},
		{".hidden", "abc", ".hidden.html"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := outputName(tt.name, tt.id); got != tt.want {
				t.Errorf("outputName(%q, %q) = %q, want %q", tt.name, tt.id, got, tt.want)
			}
		})
	}
}
