package motion

import "fmt"

// ErrRootFindDivergence is returned when Brent's method exhausts its
// iteration budget without converging. It should never be observed in
// practice (the bracket is verified to contain a sign change before
// refinement starts) and exists as a defensive backstop.
var ErrRootFindDivergence = fmt.Errorf("motion: root refinement failed to converge")
