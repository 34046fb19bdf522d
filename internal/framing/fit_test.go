package framing

import (
	"image/color"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"posecam/internal/mathutil"
	"posecam/internal/scene"
)

func unitFigure() mathutil.Box {
	return mathutil.EmptyBox().Extend(mgl64.Vec3{-1, 0, -1}).Extend(mgl64.Vec3{1, 2, 1})
}

func TestFitScenario(t *testing.T) {
	fit := FitBox(unitFigure(), 1.0, 1.25, DefaultViewDir)

	if got := fit.HalfHeight(); math.Abs(got-1.25) > 1e-12 {
		t.Errorf("expected halfHeight 1.25, got %v", got)
	}
	if got := fit.HalfWidthNeeded; math.Abs(got-1.25) > 1e-12 {
		t.Errorf("expected halfWidthNeeded 1.25, got %v", got)
	}
	if got := fit.Frustum.HalfWidth(); math.Abs(got-1.25) > 1e-12 {
		t.Errorf("expected halfWidth 1.25, got %v", got)
	}
	if fit.Focus != (mgl64.Vec3{0, 1, 0}) {
		t.Errorf("expected focus (0,1,0), got %v", fit.Focus)
	}
	if fit.SubjectHeight != 2 {
		t.Errorf("expected subject height 2, got %v", fit.SubjectHeight)
	}
	if fit.Camera != (mgl64.Vec3{0, 1, 4}) {
		t.Errorf("expected camera at (0,1,4), got %v", fit.Camera)
	}
	if fit.Frustum.Near != 0.1 || fit.Frustum.Far != 2000 {
		t.Errorf("expected near/far 0.1/2000, got %v/%v", fit.Frustum.Near, fit.Frustum.Far)
	}
}

func TestFitFrustumSymmetricAndAspectCorrect(t *testing.T) {
	for _, aspect := range []float64{0.25, 0.5, 1, 1.5, 16.0 / 9.0, 4} {
		fit := FitBox(unitFigure(), aspect, 1.25, DefaultViewDir)
		f := fit.Frustum

		if f.Left != -f.Right || f.Bottom != -f.Top {
			t.Errorf("aspect %v: expected symmetric frustum, got %+v", aspect, f)
		}
		want := math.Max(aspect, fit.HalfWidthNeeded/f.Top)
		if got := f.Right / f.Top; math.Abs(got-want) > 1e-12 {
			t.Errorf("aspect %v: expected right/top %v, got %v", aspect, want, got)
		}
		if f.Right < fit.HalfWidthNeeded {
			t.Errorf("aspect %v: frustum clips subject horizontally (%v < %v)", aspect, f.Right, fit.HalfWidthNeeded)
		}
	}
}

func TestFitWideSubjectOnNarrowViewport(t *testing.T) {
	wide := mathutil.EmptyBox().Extend(mgl64.Vec3{-4, 0, 0}).Extend(mgl64.Vec3{4, 1, 0})
	fit := FitBox(wide, 0.5, 1, DefaultViewDir)

	if fit.Frustum.Top != 0.5 {
		t.Errorf("expected halfHeight 0.5, got %v", fit.Frustum.Top)
	}
	if fit.Frustum.Right != 4 {
		t.Errorf("expected halfWidth floor 4, got %v", fit.Frustum.Right)
	}
}

func TestFitFarPlaneGrowsWithSubject(t *testing.T) {
	huge := mathutil.EmptyBox().Extend(mgl64.Vec3{0, 0, 0}).Extend(mgl64.Vec3{500, 10, 10})
	fit := FitBox(huge, 1, 1, DefaultViewDir)
	if fit.Frustum.Far != 5000 {
		t.Errorf("expected far 5000, got %v", fit.Frustum.Far)
	}
}

func TestResizeKeepsHalfHeight(t *testing.T) {
	fit := FitBox(unitFigure(), 1.5, 1.25, DefaultViewDir)
	origTop := fit.Frustum.Top
	origRight := fit.Frustum.Right

	fit.Resize(0.75)
	if fit.Frustum.Top != origTop {
		t.Errorf("expected halfHeight %v after resize, got %v", origTop, fit.Frustum.Top)
	}
	if fit.Frustum.Left != -fit.Frustum.Right {
		t.Errorf("expected symmetric frustum after resize, got %+v", fit.Frustum)
	}

	fit.Resize(3)
	if math.Abs(fit.Frustum.Right-origTop*3) > 1e-12 {
		t.Errorf("expected halfWidth %v, got %v", origTop*3, fit.Frustum.Right)
	}

	fit.Resize(1.5)
	if fit.Frustum.Right != origRight {
		t.Errorf("expected halfWidth restored to %v, got %v", origRight, fit.Frustum.Right)
	}
}

func TestDegenerateBoundsClampToEpsilon(t *testing.T) {
	point := mathutil.EmptyBox().Extend(mgl64.Vec3{2, 2, 2})
	fit := FitBox(point, 1, 1.25, DefaultViewDir)

	if fit.Frustum.Top <= 0 || fit.Frustum.Right <= 0 {
		t.Errorf("expected positive frustum for a single point, got %+v", fit.Frustum)
	}
	if fit.Focus != (mgl64.Vec3{2, 2, 2}) {
		t.Errorf("expected focus at the point, got %v", fit.Focus)
	}
	if d := fit.Camera.Sub(fit.Focus).Len(); d < 1 || d <= fit.Frustum.Near {
		t.Errorf("expected camera at least 1 unit from the focus, got %v", d)
	}
}

func TestInvalidAspectFallsBack(t *testing.T) {
	for _, aspect := range []float64{0, -2, math.NaN(), math.Inf(1)} {
		fit := FitBox(unitFigure(), aspect, 1.25, DefaultViewDir)
		if fit.Frustum.Right != 1.25 {
			t.Errorf("aspect %v: expected fallback halfWidth 1.25, got %v", aspect, fit.Frustum.Right)
		}
	}
	if got := ViewportAspect(800, 0); got != 1 {
		t.Errorf("expected aspect 1 for zero height, got %v", got)
	}
}

func TestFitSubtree(t *testing.T) {
	root := scene.NewNode("model")
	body := scene.NewNode("body")
	body.SetMesh(scene.NewBoxMesh(mgl64.Vec3{-1, 0, -1}, mgl64.Vec3{1, 2, 1}, color.NRGBA{A: 255}))
	root.Add(body)

	fit := FitSubtree(root, 1, 1.25)
	if fit.Frustum.Top != 1.25 || fit.Focus != (mgl64.Vec3{0, 1, 0}) {
		t.Errorf("expected subtree fit to match box fit, got %+v focus %v", fit.Frustum, fit.Focus)
	}
}
