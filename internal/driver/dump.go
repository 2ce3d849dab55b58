package driver

import (
	"fmt"
	"io"

	"mirror/internal/mirror"
)

// Dump writes every lowered body in unit order. Units without a body are
// listed with a marker so the output still names every unit.
func (r *Result) Dump(w io.Writer) error {
	for i, u := range r.Units {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "// %s\n", u.Name); err != nil {
			return err
		}
		if u.Body == nil {
			if _, err := io.WriteString(w, "<error>\n"); err != nil {
				return err
			}
			continue
		}
		if err := mirror.Dump(w, u.Body, r.Global.Unit(u.Name, nil)); err != nil {
			return err
		}
		if u.Value != nil {
			if _, err := fmt.Fprintf(w, "= %s\n", u.Value.Format(r.Global.Strings())); err != nil {
				return err
			}
		}
	}
	return nil
}
