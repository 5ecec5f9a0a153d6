package ui

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/unsaidapp/unsaid/pkg/authflow"
)

// buildAuthView renders the login/registration screen.
func (a *App) buildAuthView() fyne.CanvasObject {
	register := a.flow.Mode() == authflow.ModeRegister
	form := a.flow.Form()

	logo := widget.NewLabelWithStyle("Unsaid.", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	errLabel := widget.NewLabel(a.flow.ErrorMessage())
	errLabel.Importance = widget.DangerImportance
	errLabel.Alignment = fyne.TextAlignCenter
	errLabel.Wrapping = fyne.TextWrapWord

	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("Full Name")
	nameEntry.SetText(form.Name)

	mobileEntry := widget.NewEntry()
	mobileEntry.SetPlaceHolder("Mobile Number")
	mobileEntry.SetText(form.MobileNo)

	usernameEntry := widget.NewEntry()
	usernameEntry.SetPlaceHolder("Username")
	usernameEntry.SetText(form.Username)

	passwordEntry := widget.NewPasswordEntry()
	passwordEntry.SetPlaceHolder("Password")
	passwordEntry.SetText(form.Password)

	confirmEntry := widget.NewPasswordEntry()
	confirmEntry.SetPlaceHolder("Confirm Password")
	confirmEntry.SetText(form.ConfirmPassword)

	showPassword := passwordReveal(passwordEntry, confirmEntry)

	submitLabel := "Login"
	if register {
		submitLabel = "Register"
	}

	var submitBtn *widget.Button
	submitBtn = widget.NewButton(submitLabel, func() {
		a.flow.SetForm(authflow.Form{
			Name:            nameEntry.Text,
			Username:        usernameEntry.Text,
			Password:        passwordEntry.Text,
			ConfirmPassword: confirmEntry.Text,
			MobileNo:        mobileEntry.Text,
		})
		submitBtn.Disable()
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			// Success navigates via OnAuthenticated; failures land in the
			// error label below.
			_ = a.flow.Submit(ctx)
			fyne.Do(func() {
				errLabel.SetText(a.flow.ErrorMessage())
				submitBtn.Enable()
			})
		}()
	})
	submitBtn.Importance = widget.HighImportance

	toggleText := "Don't have an account? Register"
	if register {
		toggleText = "Already have an account? Login"
	}
	toggleBtn := widget.NewButton(toggleText, func() {
		a.flow.ToggleMode()
		// Toggling clears fields and error, so the screen is rebuilt.
		a.window.SetContent(a.buildAuthView())
	})
	toggleBtn.Importance = widget.LowImportance

	fields := []fyne.CanvasObject{}
	if register {
		fields = append(fields, nameEntry, mobileEntry)
	}
	fields = append(fields, usernameEntry, passwordEntry)
	if register {
		fields = append(fields, confirmEntry)
	}
	fields = append(fields, showPassword)

	card := container.NewVBox(
		logo,
		errLabel,
		container.NewVBox(fields...),
		submitBtn,
		toggleBtn,
	)

	return container.New(layout.NewCenterLayout(),
		container.NewGridWrap(fyne.NewSize(360, 420), card),
	)
}

// passwordReveal returns the "Show Password" toggle controlling the given
// password entries.
func passwordReveal(entries ...*widget.Entry) *widget.Check {
	return widget.NewCheck("Show Password", func(on bool) {
		for _, e := range entries {
			e.Password = !on
			e.Refresh()
		}
	})
}
