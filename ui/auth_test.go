package ui

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
)

func TestPasswordRevealTogglesEntries(t *testing.T) {
	test.NewApp()

	pw := widget.NewPasswordEntry()
	confirm := widget.NewPasswordEntry()
	check := passwordReveal(pw, confirm)

	check.SetChecked(true)
	assert.False(t, pw.Password)
	assert.False(t, confirm.Password)

	check.SetChecked(false)
	assert.True(t, pw.Password)
	assert.True(t, confirm.Password)
}
