package overlay

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// PutImage alpha-composites sprite onto dst with the sprite's center at
// center. dst is an 8-bit BGR or BGRA frame; a 3-channel sprite is opaque.
// Parts of the sprite outside dst are clipped.
func PutImage(dst *gocv.Mat, sprite gocv.Mat, center image.Point) error {
	if dst == nil || dst.Empty() || sprite.Empty() {
		return nil
	}

	dch, sch := dst.Channels(), sprite.Channels()
	if dch != 3 && dch != 4 {
		return fmt.Errorf("put image: unsupported frame channels %d", dch)
	}
	if sch != 3 && sch != 4 {
		return fmt.Errorf("put image: unsupported sprite channels %d", sch)
	}

	origin := image.Pt(center.X-sprite.Cols()/2, center.Y-sprite.Rows()/2)
	placed := image.Rectangle{Min: origin, Max: origin.Add(image.Pt(sprite.Cols(), sprite.Rows()))}
	area := placed.Intersect(image.Rect(0, 0, dst.Cols(), dst.Rows()))
	if area.Empty() {
		return nil
	}

	roi := dst.Region(area)
	defer roi.Close()
	src := sprite.Region(area.Sub(origin))
	defer src.Close()

	blend(&roi, src)
	return nil
}

// blend composites src over dst in place. Both are the same size.
func blend(dst *gocv.Mat, src gocv.Mat) {
	sp := gocv.Split(src)
	defer closeAll(sp)
	dp := gocv.Split(*dst)
	defer closeAll(dp)

	if len(sp) == 3 {
		for c := range 3 {
			sp[c].CopyTo(&dp[c])
		}
		if len(dp) == 4 {
			dp[3].SetTo(gocv.NewScalar(255, 0, 0, 0))
		}
	} else {
		alpha := gocv.NewMat()
		defer alpha.Close()
		sp[3].ConvertToWithParams(&alpha, gocv.MatTypeCV32F, 1.0/255, 0)

		for c := range 3 {
			mix(&dp[c], sp[c], alpha)
		}
		if len(dp) == 4 {
			// Coverage accumulates: a + da*(1-a)
			opaque := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 0, 0, 0), src.Rows(), src.Cols(), gocv.MatTypeCV8U)
			defer opaque.Close()
			mix(&dp[3], opaque, alpha)
		}
	}

	merged := gocv.NewMat()
	defer merged.Close()
	gocv.Merge(dp, &merged)
	merged.CopyTo(dst)
}

// mix sets plane to plane + (src-plane)*alpha, rounded back to 8 bits.
func mix(plane *gocv.Mat, src, alpha gocv.Mat) {
	d := gocv.NewMat()
	defer d.Close()
	s := gocv.NewMat()
	defer s.Close()
	plane.ConvertTo(&d, gocv.MatTypeCV32F)
	src.ConvertTo(&s, gocv.MatTypeCV32F)

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.Subtract(s, d, &diff)
	gocv.Multiply(diff, alpha, &diff)
	gocv.Add(d, diff, &diff)

	diff.ConvertTo(plane, gocv.MatTypeCV8U)
}

func closeAll(mats []gocv.Mat) {
	for i := range mats {
		mats[i].Close()
	}
}
