package interaction

import (
	"math"
	"testing"

	"github.com/taigrr/globe/pkg/config"
	"github.com/taigrr/globe/pkg/input"
	"github.com/taigrr/globe/pkg/math3d"
)

func touch(id int, x, y float64) input.Touch {
	return input.Touch{ID: id, Pos: math3d.V2(x, y)}
}

func TestTouchDragRotates(t *testing.T) {
	c, target, _, _ := newAttached(t, noAutoRotate)
	c.OnTouchStart([]input.Touch{touch(7, 100, 100)})
	if st := c.State(); st.TouchID == nil || *st.TouchID != 7 || !st.Dragging {
		t.Fatalf("state after touch start = %+v, want dragging with contact 7", st)
	}
	c.OnTouchMove([]input.Touch{touch(7, 120, 100)})
	if target.yaw == 0 {
		t.Fatal("touch move did not rotate the target")
	}
	c.OnTouchEnd([]input.Touch{touch(7, 120, 100)})
	st := c.State()
	if st.Dragging || st.TouchID != nil {
		t.Errorf("state after touch end = %+v, want released", st)
	}
	if st.Velocity.Yaw <= 0 {
		t.Errorf("yaw velocity after fling = %g, want > 0", st.Velocity.Yaw)
	}
}

func TestSecondContactIsIgnored(t *testing.T) {
	c, target, _, _ := newAttached(t, noAutoRotate)
	c.OnTouchStart([]input.Touch{touch(1, 0, 0)})
	c.OnTouchStart([]input.Touch{touch(2, 500, 500)})
	if id := c.State().TouchID; id == nil || *id != 1 {
		t.Fatalf("tracked contact = %v, want 1", id)
	}

	c.OnTouchMove([]input.Touch{touch(2, 900, 900)})
	if target.yaw != 0 || target.pitch != 0 {
		t.Fatal("untracked contact rotated the target")
	}
	c.OnTouchMove([]input.Touch{touch(2, 900, 900), touch(1, 40, 0)})
	if target.yaw == 0 {
		t.Fatal("tracked contact in a multi-touch move was ignored")
	}

	c.OnTouchEnd([]input.Touch{touch(2, 900, 900)})
	if !c.State().Dragging {
		t.Fatal("lifting the untracked contact ended the drag")
	}
	c.OnTouchEnd([]input.Touch{touch(1, 40, 0)})
	if c.State().Dragging {
		t.Fatal("lifting the tracked contact did not end the drag")
	}
}

func TestTouchIgnoredDuringMouseDrag(t *testing.T) {
	c, _, _, _ := newAttached(t, noAutoRotate)
	c.OnPressStart(math3d.V2(0, 0))
	c.OnTouchStart([]input.Touch{touch(4, 10, 10)})
	if c.State().TouchID != nil {
		t.Error("touch contact tracked while a mouse drag is active")
	}
	c.OnPressEnd(math3d.V2(0, 0))

	c.OnTouchStart(nil)
	if c.State().Dragging {
		t.Error("empty touch start began a drag")
	}
}

func TestPointerIgnoredDuringTouchDrag(t *testing.T) {
	c, target, _, _ := newAttached(t, noAutoRotate)
	c.OnTouchStart([]input.Touch{touch(3, 100, 100)})
	c.OnPressStart(math3d.V2(900, 900))
	c.OnPressMove(math3d.V2(950, 950))
	if target.yaw != 0 || target.pitch != 0 {
		t.Fatal("pointer rotated the target during a touch drag")
	}

	c.OnTouchMove([]input.Touch{touch(3, 104, 100)})
	want := 4 * config.Default().Controls.RotateGain
	if math.Abs(target.yaw-want) > 1e-12 || target.pitch != 0 {
		t.Errorf("after touch move yaw=%g pitch=%g, want yaw=%g pitch=0", target.yaw, target.pitch, want)
	}

	c.OnPressEnd(math3d.V2(950, 950))
	if st := c.State(); !st.Dragging || st.TouchID == nil {
		t.Fatalf("pointer release ended the touch drag: %+v", st)
	}
	c.OnTouchEnd([]input.Touch{touch(3, 104, 100)})
	if c.State().Dragging {
		t.Error("touch end did not release the drag")
	}
}
