package model

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/sheikhrachel/go-gol3d/rules"
)

const (
	gridPosBlock  = "██"
	gridPosDecay  = "▒▒"
	gridPosEmpty  = "  "
	gridPosBorder = "--"

	macosClearCmd = "clear"
)

// TerminalRenderer prints one z-slice of a view as text
type TerminalRenderer struct {
	Out io.Writer
}

func (r *TerminalRenderer) out() io.Writer {
	if r.Out == nil {
		return os.Stdout
	}
	return r.Out
}

// Display renders layer z of the view. Fresh cells are solid, decaying cells shaded.
func (r *TerminalRenderer) Display(v View, z int, fresh rules.CellState) {
	w := r.out()
	d := v.Dims()
	if z < 0 || z >= d.Z {
		fmt.Fprintf(w, "layer %d outside 0..%d\n", z, d.Z-1)
		return
	}
	for y := range d.Y {
		for x := range d.X {
			switch s := v.At(x, y, z); {
			case s == rules.Dead:
				fmt.Fprint(w, gridPosEmpty)
			case s >= fresh:
				fmt.Fprint(w, gridPosBlock)
			default:
				fmt.Fprint(w, gridPosDecay)
			}
		}
		fmt.Fprintln(w)
	}
	for range d.X {
		fmt.Fprint(w, gridPosBorder)
	}
	fmt.Fprintln(w)
}

// Clear clears the terminal screen
func (r *TerminalRenderer) Clear() {
	var cmd *exec.Cmd
	cmd = exec.Command(macosClearCmd)
	cmd.Stdout = r.out()
	if err := cmd.Run(); err != nil {
		fmt.Fprintln(r.out(), "Error clearing terminal:", err)
	}
}
