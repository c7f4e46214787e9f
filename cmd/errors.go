package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/manifoldco/promptui"

	"github.com/yukitake212/first-hackathon-product/internal/ui"
	"github.com/yukitake212/first-hackathon-product/models"
)

// PrintError prints err without exiting. By default it prints a short
// user-facing message; with --verbose it prints the full error chain.
func PrintError(w io.Writer, err error) {
	if err == nil {
		return
	}
	if isJSON() {
		_ = printJSON(w, map[string]string{"error": err.Error()})
		return
	}
	msg := userMessage(err)
	if isVerbose() && msg != err.Error() {
		msg += "\n  " + ui.StyleSubtle.Render(err.Error())
	}
	_, _ = fmt.Fprintln(w, ui.StyleError.Render("✗ ")+msg)
}

// userMessage maps known failures onto a one-line explanation.
func userMessage(err error) string {
	var (
		ve  *models.ValidationError
		nf  *models.NotFoundError
		pe  *models.ParseError
		cfg validator.ValidationErrors
	)
	switch {
	case errors.Is(err, promptui.ErrInterrupt), errors.Is(err, promptui.ErrEOF):
		return "Cancelled."
	case errors.Is(err, ErrNoTasksFound):
		return ErrNoTasksFound.Error()
	case errors.As(err, &ve):
		return ve.Error()
	case errors.As(err, &nf):
		return nf.Error()
	case errors.As(err, &pe):
		return fmt.Sprintf("%q is not a date (use YYYY-MM-DD, today or tomorrow)", pe.Value)
	case errors.As(err, &cfg):
		return "Invalid configuration: " + cfg.Error()
	}
	return err.Error()
}
