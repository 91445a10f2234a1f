package ioraster

import (
	"context"
	"os"
	"os/exec"
)

// convert runs h4toh5 on src and places the HDF5 result at dst.
func convert(ctx context.Context, bin, src, dst string) error {
	tmp := dst + ".part"
	out, err := exec.CommandContext(ctx, bin, src, tmp).CombinedOutput()
	if err != nil {
		os.Remove(tmp)
		return ConvertError(src, out, err)
	}
	if err = os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return ConvertError(src, nil, err)
	}
	return nil
}
