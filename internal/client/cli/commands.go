package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/logkeeper/internal/client/models"
	"github.com/dmitrijs2005/logkeeper/internal/client/state"
)

var errNoRow = errors.New("no such row")

const deletePrompt = "Are you sure you want to delete this log entry? This action cannot be undone."

func (a *App) List(ctx context.Context) error {
	v, rows := a.table.Page()
	renderTable(a.out, v, rows, a.table.Status, termWidth())
	return nil
}

func (a *App) Add(ctx context.Context) error {
	a.table.AddDraft()
	fmt.Fprintln(a.out, "New log added as row 1. Fill it with 'owner 1 ...' and 'text 1 ...', then 'save 1'.")
	return a.List(ctx)
}

func (a *App) Edit(ctx context.Context, row int) error {
	id, err := a.resolve(row)
	if err != nil {
		return err
	}
	if err := a.table.BeginEdit(id); err != nil {
		a.notifier.Error(err.Error())
		return err
	}
	return a.List(ctx)
}

func (a *App) SetOwner(ctx context.Context, row int, value string) error {
	if value == "" {
		v, err := GetSimpleText(a.reader, "Owner", a.out)
		if err != nil {
			return err
		}
		value = v
	}
	return a.setField(row, models.FieldOwner, value)
}

func (a *App) SetText(ctx context.Context, row int, value string) error {
	if value == "" {
		v, err := GetMultiline(a.reader, "Log text", a.out)
		if err != nil {
			return err
		}
		value = v
	}
	return a.setField(row, models.FieldLogText, value)
}

// setField enters editing mode when needed and changes one field locally.
func (a *App) setField(row int, f models.Field, value string) error {
	id, err := a.resolve(row)
	if err != nil {
		return err
	}
	if !a.table.IsEditing(id) {
		if err := a.table.BeginEdit(id); err != nil {
			a.notifier.Error(err.Error())
			return err
		}
	}
	if err := a.table.UpdateField(id, f, value); err != nil {
		a.notifier.Error(err.Error())
		return err
	}
	return nil
}

func (a *App) Save(ctx context.Context, row int) error {
	id, err := a.resolve(row)
	if err != nil {
		return err
	}
	if err := a.table.Save(ctx, id); err != nil {
		return a.reportBusy(err)
	}
	return a.List(ctx)
}

func (a *App) Cancel(ctx context.Context, row int) error {
	id, err := a.resolve(row)
	if err != nil {
		return err
	}
	if err := a.table.CancelEdit(ctx, id); err != nil {
		return a.reportBusy(err)
	}
	return a.List(ctx)
}

// Delete asks for confirmation before removing the row.
func (a *App) Delete(ctx context.Context, row int) error {
	id, err := a.resolve(row)
	if err != nil {
		return err
	}
	if err := a.table.RequestDelete(id); err != nil {
		a.notifier.Error(err.Error())
		return err
	}

	ok, err := Confirm(a.reader, deletePrompt, a.out)
	if err != nil || !ok {
		a.table.DismissDelete()
		fmt.Fprintln(a.out, "Delete cancelled")
		return err
	}

	if err := a.table.ConfirmDelete(ctx); err != nil {
		return a.reportBusy(err)
	}
	return a.List(ctx)
}

func (a *App) Reload(ctx context.Context) error {
	if err := a.table.Load(ctx); err != nil {
		return err
	}
	return a.List(ctx)
}

func (a *App) GoToPage(ctx context.Context, page int) error {
	v, _ := a.table.Page()
	if page != v.Page && !a.table.GoToPage(page) {
		fmt.Fprintf(a.out, "No page %d\n", page)
		return nil
	}
	return a.List(ctx)
}

func (a *App) NextPage(ctx context.Context) error {
	if !a.table.NextPage() {
		fmt.Fprintln(a.out, "Already on the last page")
		return nil
	}
	return a.List(ctx)
}

func (a *App) PrevPage(ctx context.Context) error {
	if !a.table.PrevPage() {
		fmt.Fprintln(a.out, "Already on the first page")
		return nil
	}
	return a.List(ctx)
}

func (a *App) Health(ctx context.Context) error {
	env := a.client.Health(ctx)
	if err := env.Err(); err != nil {
		a.setMode(ModeOffline)
		a.notifier.Error("Server is unreachable: " + env.Error)
		return err
	}
	a.setMode(ModeOnline)
	a.notifier.Success(env.Message)
	return nil
}

func (a *App) Export(ctx context.Context) error {
	env := a.client.Export(ctx)
	if err := env.Err(); err != nil {
		a.notifier.Error("Failed to export logs: " + env.Error)
		return err
	}
	a.notifier.Success(fmt.Sprintf("Exported %d logs to %s", env.Data.Count, env.Data.Key))
	if env.Data.URL != "" {
		fmt.Fprintln(a.out, "Download:", env.Data.URL)
	}
	return nil
}

// resolve maps a 1-based row number to the entry id.
func (a *App) resolve(row int) (models.ID, error) {
	entries := a.table.Entries()
	if row < 1 || row > len(entries) {
		err := fmt.Errorf("%w: %d", errNoRow, row)
		a.notifier.Error(fmt.Sprintf("No row %d", row))
		return models.ID{}, err
	}
	return entries[row-1].ID, nil
}

// reportBusy announces errors the table returns without notifying.
func (a *App) reportBusy(err error) error {
	if errors.Is(err, state.ErrBusy) {
		a.notifier.Error("Another operation on this log is still running")
	}
	return err
}
