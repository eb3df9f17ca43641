package inventory

import (
	"encoding/json"
	"io"

	"github.com/mitchellh/copystructure"
	"github.com/pkg/errors"

	"github.com/zabuzafr/lparsync/internal/model"
)

// Dump writes the inventory as indented JSON, keyed by LPAR name. The
// inventory is deep-copied first so the dump can never alias the records a
// caller still holds.
func Dump(w io.Writer, inv model.Inventory) error {
	snapshot, err := copystructure.Copy(inv)
	if err != nil {
		return errors.Wrap(err, "snapshotting inventory")
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return errors.Wrap(enc.Encode(snapshot), "encoding inventory")
}
