package viewport_test

import (
	"math"
	"testing"

	"github.com/notegraph/notegraph/pkg/model"
	"github.com/notegraph/notegraph/pkg/viewport"
)

func TestNewViewport(t *testing.T) {
	v := viewport.New()

	if v.Zoom() != 1 {
		t.Errorf("Expected zoom 1, got %v", v.Zoom())
	}
	if p := v.Pan(); p.X != 0 || p.Y != 0 {
		t.Errorf("Expected no pan, got %v", p)
	}
}

func TestScreenToGraphRoundTrip(t *testing.T) {
	v := viewport.New()
	v.Wheel(-1)
	v.BeginPan(0, 0)
	v.PanTo(30, -20)
	v.EndPan()

	g := v.ScreenToGraph(500, 300, 800, 600)
	wantX := (500 - 400 - 30) / 1.1
	wantY := (300 - 300 + 20) / 1.1
	if math.Abs(g.X-wantX) > 1e-9 || math.Abs(g.Y-wantY) > 1e-9 {
		t.Errorf("Expected (%v, %v), got %v", wantX, wantY, g)
	}

	s := v.GraphToScreen(g, 800, 600)
	if math.Abs(s.X-500) > 1e-9 || math.Abs(s.Y-300) > 1e-9 {
		t.Errorf("Expected round trip to (500, 300), got %v", s)
	}
}

func TestPanAnchor(t *testing.T) {
	v := viewport.New()

	v.BeginPan(100, 100)
	v.PanTo(150, 90)
	if p := v.Pan(); p.X != 50 || p.Y != -10 {
		t.Errorf("Expected pan (50, -10), got %v", p)
	}
	v.EndPan()

	// A second gesture continues from the current pan.
	v.BeginPan(10, 10)
	v.PanTo(20, 20)
	if p := v.Pan(); p.X != 60 || p.Y != 0 {
		t.Errorf("Expected pan (60, 0), got %v", p)
	}
	v.EndPan()

	v.PanTo(500, 500)
	if p := v.Pan(); p.X != 60 || p.Y != 0 {
		t.Errorf("Expected pan unchanged outside a gesture, got %v", p)
	}
}

func TestWheelZoomClamp(t *testing.T) {
	v := viewport.New()

	for i := 0; i < 100; i++ {
		v.Wheel(1)
		if v.Zoom() < viewport.MinZoom {
			t.Fatalf("Zoom dropped below minimum: %v", v.Zoom())
		}
	}
	if v.Zoom() != viewport.MinZoom {
		t.Errorf("Expected zoom clamped at %v, got %v", viewport.MinZoom, v.Zoom())
	}

	for i := 0; i < 100; i++ {
		v.Wheel(-1)
		if v.Zoom() > viewport.MaxZoom {
			t.Fatalf("Zoom exceeded maximum: %v", v.Zoom())
		}
	}
	if v.Zoom() != viewport.MaxZoom {
		t.Errorf("Expected zoom clamped at %v, got %v", viewport.MaxZoom, v.Zoom())
	}
}

func TestZoomButtons(t *testing.T) {
	v := viewport.New()

	v.ZoomIn()
	if math.Abs(v.Zoom()-1.1) > 1e-9 {
		t.Errorf("Expected zoom 1.1, got %v", v.Zoom())
	}
	if v.ZoomPercent() != 110 {
		t.Errorf("Expected 110%%, got %d%%", v.ZoomPercent())
	}

	for i := 0; i < 50; i++ {
		v.ZoomOut()
	}
	if v.Zoom() != viewport.MinZoom {
		t.Errorf("Expected zoom clamped at %v, got %v", viewport.MinZoom, v.Zoom())
	}
}

func TestReset(t *testing.T) {
	v := viewport.New()
	v.ZoomIn()
	v.BeginPan(0, 0)
	v.PanTo(10, 10)

	v.Reset()

	if v.Zoom() != 1 || v.Pan() != (model.Point{}) || v.Panning() {
		t.Errorf("Expected reset state, got zoom=%v pan=%v panning=%v", v.Zoom(), v.Pan(), v.Panning())
	}
}

func TestFocusOn(t *testing.T) {
	v := viewport.New()
	v.ZoomIn()

	v.FocusOn(model.Point{X: 100, Y: -50})

	s := v.GraphToScreen(model.Point{X: 100, Y: -50}, 800, 600)
	if math.Abs(s.X-400) > 1e-9 || math.Abs(s.Y-300) > 1e-9 {
		t.Errorf("Expected point at surface center, got %v", s)
	}
}
