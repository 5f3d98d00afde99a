// Package transfer serializes the ledger and the meal library to the
// versionless data.json transfer format and merges imported payloads back in.
package transfer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/caloq-app/caloq/internal/apperrors"
	"github.com/caloq-app/caloq/internal/history"
	"github.com/caloq-app/caloq/internal/meals"
)

// ExportFileName is the fixed name of the export file inside the chosen
// directory.
const ExportFileName = "data.json"

// Payload is the transfer document: the full ledger plus the ordered meal
// mapping.
type Payload struct {
	HistoryEntries []history.Entry   `json:"historyEntries"`
	MealEntries    *meals.ProfileMap `json:"mealEntries"`
}

// Result reports what an import actually added.
type Result struct {
	NewEntries int
	NewMeals   int
}

// Codec moves data between the stores and the transfer format.
type Codec struct {
	history *history.Service
	meals   *meals.Service
}

// NewCodec wires the codec to the two stores it serializes.
func NewCodec(historySvc *history.Service, mealsSvc *meals.Service) *Codec {
	return &Codec{history: historySvc, meals: mealsSvc}
}

// ExportTo writes the transfer document to w.
func (c *Codec) ExportTo(w io.Writer) error {
	payload := Payload{
		HistoryEntries: c.history.Entries(),
		MealEntries:    c.meals.Snapshot(),
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		return apperrors.NewExportError(err)
	}
	return nil
}

// ExportToDir replaces data.json in dir atomically: the file is either fully
// rewritten or left as it was.
func (c *Codec) ExportToDir(dir string) error {
	tmp, err := os.CreateTemp(dir, ExportFileName+".*.tmp")
	if err != nil {
		return apperrors.NewExportError(err)
	}
	tmpName := tmp.Name()

	if err := c.ExportTo(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return apperrors.NewExportError(err)
	}
	if err := os.Rename(tmpName, filepath.Join(dir, ExportFileName)); err != nil {
		os.Remove(tmpName)
		return apperrors.NewExportError(err)
	}
	return nil
}

// Import merges a transfer document into the stores. The whole document is
// parsed before anything is written, so a malformed file aborts with no
// partial merge. Existing meals are authoritative and never overwritten;
// history entries are skipped when their canonicalized representation already
// exists.
func (c *Codec) Import(ctx context.Context, r io.Reader) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, apperrors.NewImportError(err)
	}

	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return Result{}, apperrors.NewImportError(err)
	}

	var mealsToAdd []meals.Meal
	if payload.MealEntries != nil {
		for _, name := range payload.MealEntries.Names() {
			if _, exists := c.meals.Get(name); exists {
				continue
			}
			profile, _ := payload.MealEntries.Get(name)
			mealsToAdd = append(mealsToAdd, meals.Meal{Name: name, Vector: profile})
		}
	}
	c.meals.AddMany(ctx, mealsToAdd)

	existing := make(map[string]bool)
	for _, e := range c.history.Entries() {
		existing[e.Canonical()] = true
	}

	var entriesToAdd []history.Entry
	for _, e := range payload.HistoryEntries {
		if existing[e.Canonical()] {
			continue
		}
		existing[e.Canonical()] = true
		entriesToAdd = append(entriesToAdd, e)
	}
	c.history.AddMany(ctx, entriesToAdd)

	return Result{NewEntries: len(entriesToAdd), NewMeals: len(mealsToAdd)}, nil
}

// ImportFile imports from a file on disk.
func (c *Codec) ImportFile(ctx context.Context, path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, apperrors.NewImportError(fmt.Errorf("failed to open import file: %w", err))
	}
	defer f.Close()
	return c.Import(ctx, f)
}
