package block

import (
	"fmt"
	"os"
	"time"
)

// EditFile regenerates the block called name inside the file at path. The
// file is rewritten in place: editors invoked by crontab(1) must keep the
// inode crontab is holding open.
//
// crontab detects edits by mtime with one second resolution, so a non-zero
// pause is slept before writing.
func EditFile(path, name, content string, pause time.Duration) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("can't read file %q: %w", path, err)
	}

	updated, err := Regenerate(string(data), name, content)
	if err != nil {
		return fmt.Errorf("can't remove block %q from file %q: %w", name, path, err)
	}

	if pause > 0 {
		time.Sleep(pause)
	}

	if err := os.WriteFile(path, []byte(updated), 0o600); err != nil {
		return fmt.Errorf("can't write file %q: %w", path, err)
	}
	return nil
}

// RemoveFromFile strips the block called name from the file at path.
func RemoveFromFile(path, name string, pause time.Duration) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("can't read file %q: %w", path, err)
	}

	updated, err := Remove(string(data), name)
	if err != nil {
		return fmt.Errorf("can't remove block %q from file %q: %w", name, path, err)
	}
	if updated == string(data) {
		return nil
	}
	if updated != "" {
		updated += "\n"
	}

	if pause > 0 {
		time.Sleep(pause)
	}

	if err := os.WriteFile(path, []byte(updated), 0o600); err != nil {
		return fmt.Errorf("can't write file %q: %w", path, err)
	}
	return nil
}
