package pdf

import (
	"bytes"
	"fmt"
)

// Build returns a minimal valid PDF with one blank page per size. It exists so
// tests across packages can produce real uploads without fixtures on disk.
func Build(sizes ...[2]float64) []byte {
	var buf bytes.Buffer
	var offsets []int

	write := func(format string, args ...any) {
		fmt.Fprintf(&buf, format, args...)
	}
	object := func(body string) {
		offsets = append(offsets, buf.Len())
		write("%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	write("%%PDF-1.4\n")

	kids := ""
	for i := range sizes {
		kids += fmt.Sprintf("%d 0 R ", 3+i)
	}
	object("<< /Type /Catalog /Pages 2 0 R >>")
	object(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, len(sizes)))
	for _, s := range sizes {
		object(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %g %g] /Resources << >> >>", s[0], s[1]))
	}

	xref := buf.Len()
	write("xref\n0 %d\n", len(offsets)+1)
	write("0000000000 65535 f \n")
	for _, off := range offsets {
		write("%010d 00000 n \n", off)
	}
	write("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)

	return buf.Bytes()
}
