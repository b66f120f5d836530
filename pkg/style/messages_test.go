package style

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrinterPlainOutputForNonTTY(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out)

	p.Success("backed up %s", "/home/u/.zshrc")
	p.Error("failed %s", "/home/u/.vimrc")
	p.Title("Backup runs")
	p.Summary(true, "%d processed", 2)

	got := out.String()
	assert.Contains(t, got, "backed up /home/u/.zshrc")
	assert.Contains(t, got, "failed /home/u/.vimrc")
	assert.Contains(t, got, "Backup runs")
	assert.Contains(t, got, "2 processed")
	assert.NotContains(t, got, "\x1b[", "non-tty output must carry no ANSI escapes")
}

func TestPathPassthroughForNonTTY(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out)
	assert.Equal(t, "/x/y", p.Path("/x/y"))
}
