// Package ldconfig wraps the shared-library cache refresher as the
// external-process collaborator described in spec §6: the core never
// links against it, only shells out and waits.
package ldconfig

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/opkgtool/pkgctl/internal/domain"
)

// Refresh invokes "/sbin/ldconfig -r root" if "<root>/etc/ld.so.conf"
// exists. A failed invocation is logged but never returned as an error:
// the spec treats it as non-fatal.
func Refresh(root string, logger domain.Logger) {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	conf := filepath.Join(root, "etc/ld.so.conf")
	if _, err := os.Stat(conf); err != nil {
		return
	}

	cmd := exec.Command("/sbin/ldconfig", "-r", root)
	if err := cmd.Run(); err != nil {
		logger.Warn("ldconfig refresh failed", "root", root, "error", err)
	}
}
