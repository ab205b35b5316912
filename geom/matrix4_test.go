package geom

import (
	"math"
	"testing"
)

func TestDecomposeMatrix(t *testing.T) {
	const eps = 0.000001

	pos := NewVector3(1, 2, 3)
	rot := NewEuler(10*math.Pi/180, 20*math.Pi/180, 30*math.Pi/180, RotationOrderZXY).ToQuaternion()
	scale := NewVector3(1.5, 1.6, 1.7)

	mat := NewTRSMatrix4(pos, rot, scale)
	pos1, rot1, scale1 := mat.Decompose()

	if pos.Sub(pos1).Len() > eps {
		t.Error("pos: ", pos, pos1)
	}
	if rot.Sub(rot1).Len() > eps {
		t.Error("rot: ", rot, rot1)
	}
	if scale.Sub(scale1).Len() > eps {
		t.Error("scale: ", scale, scale1)
	}

	mat2 := NewRotationMatrix4FromQuaternion(rot)
	pos1, rot1, scale1 = mat2.Decompose()
	if rot.Sub(rot1).Len() > eps {
		t.Error("rot: ", rot, rot1)
	}
	if pos1.Len() > eps {
		t.Error("pos: ", pos1)
	}
	if scale1.Sub(NewVector3(1, 1, 1)).Len() > eps {
		t.Error("scale: ", scale1)
	}
}

func TestEulerXYZMatrix(t *testing.T) {
	const eps = 0.000001

	// FBX eEulerXYZ applies X first, i.e. M = Rz * Ry * Rx.
	e := NewEulerFromDegrees(NewVector3(30, -45, 60), RotationOrderZYX)
	m := NewEulerRotationMatrix4(e.X, e.Y, e.Z, 1)
	q := NewRotationMatrix4FromQuaternion(e.ToQuaternion())
	for i := range m {
		if !Approx(m[i], q[i], eps) {
			t.Fatal("matrix mismatch: ", i, m, q)
		}
	}

	e2 := NewEulerFromMatrix4(m, RotationOrderZYX).Degrees()
	if e2.Sub(NewVector3(30, -45, 60)).Len() > eps {
		t.Error("degrees: ", e2)
	}
}

func TestInverse(t *testing.T) {
	const eps = 0.000001

	rot := NewEuler(0.1, 0.2, 0.3, RotationOrderXYZ).ToQuaternion()
	mat := NewTRSMatrix4(NewVector3(1, 2, 3), rot, NewVector3(2, 2, 2))
	id := mat.Mul(mat.Inverse())
	for i, v := range NewMatrix4() {
		if !Approx(id[i], v, eps) {
			t.Error("M * M^-1 != I", id)
			break
		}
	}
	if !Approx(mat.Det(), 8, eps) {
		t.Error("det: ", mat.Det())
	}
}
