package ui

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/unsaidapp/unsaid/pkg/api"
	"github.com/unsaidapp/unsaid/pkg/routes"
	"github.com/unsaidapp/unsaid/pkg/session"
)

// ----- Home feed -----

func (a *App) buildHomeView() fyne.CanvasObject {
	feedBox := container.NewVBox(widget.NewLabel("Loading feed..."))
	feedScroll := container.NewVScroll(feedBox)

	var posts []api.Post
	emotion := "All"
	sortMode := "Trending"

	render := func() {
		feedBox.Objects = nil
		for _, p := range sortedFeed(posts, emotion, sortMode) {
			feedBox.Add(a.postCard(p))
		}
		if len(feedBox.Objects) == 0 {
			feedBox.Add(widget.NewLabel("Nothing here yet. Say the unsaid."))
		}
		feedBox.Refresh()
	}

	emotionSelect := widget.NewSelect(emotions, func(sel string) {
		emotion = sel
		render()
	})
	emotionSelect.SetSelected("All")

	sortSelect := widget.NewSelect([]string{"Trending", "Latest"}, func(sel string) {
		sortMode = sel
		render()
	})
	sortSelect.SetSelected("Trending")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		fetched, err := a.client.ListPosts(ctx, a.token())
		fyne.Do(func() {
			if err != nil {
				a.handleAPIError(err)
				return
			}
			posts = fetched
			render()
		})
	}()

	header := container.NewHBox(
		widget.NewLabelWithStyle("Home", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		layout.NewSpacer(),
		widget.NewLabel("Emotion:"), emotionSelect,
		widget.NewLabel("Sort:"), sortSelect,
	)
	return container.NewBorder(header, nil, nil, nil, feedScroll)
}

// sortedFeed filters by emotion and orders by engagement or recency.
func sortedFeed(posts []api.Post, emotion, sortMode string) []api.Post {
	out := make([]api.Post, 0, len(posts))
	for _, p := range posts {
		if emotion == "All" || p.Emotion == emotion {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if sortMode == "Trending" {
			return out[i].Engagement() > out[j].Engagement()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (a *App) postCard(p api.Post) fyne.CanvasObject {
	author := p.User.Name
	if author == "" {
		author = p.User.Username
	}
	head := widget.NewLabelWithStyle(
		fmt.Sprintf("%s  @%s", author, p.User.Username),
		fyne.TextAlignLeading, fyne.TextStyle{Bold: true},
	)

	content := widget.NewLabel(p.Content)
	content.Wrapping = fyne.TextWrapWord

	foot := widget.NewLabel(fmt.Sprintf("%s  ·  %d likes  ·  %d comments  ·  %s",
		p.Emotion, len(p.Likes), len(p.Comments), relTime(time.Now, p.CreatedAt)))
	foot.Importance = widget.LowImportance

	return container.NewVBox(head, content, foot, widget.NewSeparator())
}

// ----- Explore -----

func (a *App) buildExploreView() fyne.CanvasObject {
	resultBox := container.NewVBox(widget.NewLabel("Loading..."))

	var posts []api.Post
	render := func(query string) {
		query = strings.ToLower(strings.TrimSpace(query))
		resultBox.Objects = nil
		for _, p := range posts {
			if query == "" ||
				strings.Contains(strings.ToLower(p.Content), query) ||
				strings.Contains(strings.ToLower(p.User.Username), query) {
				resultBox.Add(a.postCard(p))
			}
		}
		if len(resultBox.Objects) == 0 {
			resultBox.Add(widget.NewLabel("No posts match."))
		}
		resultBox.Refresh()
	}

	searchEntry := widget.NewEntry()
	searchEntry.SetPlaceHolder("Search posts and people...")
	searchEntry.OnChanged = render

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		fetched, err := a.client.ListPosts(ctx, a.token())
		fyne.Do(func() {
			if err != nil {
				a.handleAPIError(err)
				return
			}
			posts = fetched
			render(searchEntry.Text)
		})
	}()

	header := container.NewBorder(nil, nil,
		widget.NewLabelWithStyle("Explore", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		nil, searchEntry)
	return container.NewBorder(header, nil, nil, nil, container.NewVScroll(resultBox))
}

// ----- Composer -----

func (a *App) buildComposerView() fyne.CanvasObject {
	contentEntry := widget.NewMultiLineEntry()
	contentEntry.SetPlaceHolder("What's been left unsaid?")
	contentEntry.SetMinRowsVisible(8)
	contentEntry.Wrapping = fyne.TextWrapWord

	emotionSelect := widget.NewSelect(emotions[1:], nil)
	emotionSelect.SetSelected("Life")

	var shareBtn *widget.Button
	shareBtn = widget.NewButtonWithIcon("Share", theme.MailSendIcon(), func() {
		content := strings.TrimSpace(contentEntry.Text)
		if content == "" {
			dialog.ShowInformation("Empty post", "Write something first.", a.window)
			return
		}
		shareBtn.Disable()
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			_, err := a.client.CreatePost(ctx, a.token(), content, emotionSelect.Selected)
			fyne.Do(func() {
				shareBtn.Enable()
				if err != nil {
					a.handleAPIError(err)
					return
				}
				a.guard.Navigate(routes.ViewHome)
			})
		}()
	})
	shareBtn.Importance = widget.HighImportance

	return container.NewVBox(
		widget.NewLabelWithStyle("New Post", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		contentEntry,
		container.NewHBox(widget.NewLabel("Emotion:"), emotionSelect, layout.NewSpacer(), shareBtn),
	)
}

// ----- Suggestions -----

func (a *App) buildSuggestionsView() fyne.CanvasObject {
	listBox := container.NewVBox(widget.NewLabel("Loading suggestions..."))

	var render func(me *session.Identity, users []session.Identity)
	render = func(me *session.Identity, users []session.Identity) {
		listBox.Objects = nil
		for _, u := range users {
			if u.ID == me.ID || slices.Contains(me.Following, u.ID) {
				continue
			}
			user := u
			followBtn := widget.NewButtonWithIcon("Follow", theme.ContentAddIcon(), nil)
			followBtn.OnTapped = func() {
				followBtn.Disable()
				go func() {
					ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
					defer cancel()
					msg, err := a.client.Follow(ctx, a.token(), user.ID)
					if err == nil {
						// Re-fetch so the filter reflects the new follow edge.
						me, err = a.client.Me(ctx, a.token())
					}
					fyne.Do(func() {
						if err != nil {
							followBtn.Enable()
							a.handleAPIError(err)
							return
						}
						dialog.ShowInformation("Followed", msg, a.window)
						render(me, users)
					})
				}()
			}

			row := container.NewBorder(nil, nil,
				widget.NewLabel(fmt.Sprintf("%s  @%s", u.Name, u.Username)),
				followBtn, nil)
			listBox.Add(row)
			listBox.Add(widget.NewSeparator())
		}
		if len(listBox.Objects) == 0 {
			listBox.Add(widget.NewLabel("No one new to follow right now."))
		}
		listBox.Refresh()
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		me, err := a.client.Me(ctx, a.token())
		var users []session.Identity
		if err == nil {
			users, err = a.client.ListUsers(ctx)
		}
		fyne.Do(func() {
			if err != nil {
				a.handleAPIError(err)
				return
			}
			render(me, users)
		})
	}()

	return container.NewBorder(
		widget.NewLabelWithStyle("Who to follow", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		nil, nil, nil, container.NewVScroll(listBox))
}

// ----- Notifications -----

// The backend has no notifications endpoint yet, so the list is seeded
// locally, matching the web client.
type notification struct {
	message string
	kind    string
	when    string
	read    bool
}

func sampleNotifications() []notification {
	return []notification{
		{message: "Your profile was updated successfully.", kind: "success", when: "2 mins ago"},
		{message: "New comment on your post.", kind: "info", when: "10 mins ago", read: true},
		{message: "Server error occurred.", kind: "error", when: "1 hour ago"},
	}
}

func (a *App) buildNotificationsView() fyne.CanvasObject {
	items := sampleNotifications()
	listBox := container.NewVBox()

	var render func()
	render = func() {
		listBox.Objects = nil
		for i := range items {
			n := &items[i]
			msg := widget.NewLabel(n.message)
			msg.Wrapping = fyne.TextWrapWord
			if !n.read {
				msg.TextStyle = fyne.TextStyle{Bold: true}
			}
			when := widget.NewLabel(n.when)
			when.Importance = widget.LowImportance

			var actions fyne.CanvasObject = when
			if !n.read {
				markBtn := widget.NewButton("Mark read", func() {
					n.read = true
					render()
				})
				markBtn.Importance = widget.LowImportance
				actions = container.NewHBox(when, markBtn)
			}
			listBox.Add(container.NewBorder(nil, nil, msg, actions, nil))
			listBox.Add(widget.NewSeparator())
		}
		listBox.Refresh()
	}
	render()

	return container.NewBorder(
		widget.NewLabelWithStyle("Notifications", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		nil, nil, nil, container.NewVScroll(listBox))
}

// ----- Chat -----

func (a *App) buildChatView() fyne.CanvasObject {
	// No messaging transport exists yet; this screen is a placeholder.
	label := widget.NewLabelWithStyle(
		"Chat is coming soon.\nConversations will appear here once messaging ships.",
		fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	return container.New(layout.NewCenterLayout(), label)
}

// ----- Own profile -----

func (a *App) buildProfileView() fyne.CanvasObject {
	box := container.NewVBox(widget.NewLabel("Loading profile..."))

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		me, err := a.client.Me(ctx, a.token())
		fyne.Do(func() {
			if err != nil {
				a.handleAPIError(err)
				return
			}
			box.Objects = []fyne.CanvasObject{a.profileDetails(me)}
			box.Refresh()
		})
	}()

	return container.NewVScroll(box)
}

func (a *App) profileDetails(me *session.Identity) fyne.CanvasObject {
	name := widget.NewLabelWithStyle(me.Name, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	username := widget.NewLabel("@" + me.Username)
	followersBtn := widget.NewButton(fmt.Sprintf("%d followers", len(me.Followers)), func() {
		a.showUserList("Followers", me.Followers)
	})
	followersBtn.Importance = widget.LowImportance
	followingBtn := widget.NewButton(fmt.Sprintf("%d following", len(me.Following)), func() {
		a.showUserList("Following", me.Following)
	})
	followingBtn.Importance = widget.LowImportance
	counts := container.NewHBox(followersBtn, followingBtn)
	joined := widget.NewLabel("Joined " + me.CreatedAt.Format("January 2006"))
	joined.Importance = widget.LowImportance

	bioEntry := widget.NewMultiLineEntry()
	bioEntry.SetText(me.Bio)
	bioEntry.SetPlaceHolder("Tell people something about you")
	locationEntry := widget.NewEntry()
	locationEntry.SetText(me.Location)
	locationEntry.SetPlaceHolder("Location")

	saveBtn := widget.NewButton("Save profile", func() {
		update := api.ProfileUpdate{Bio: bioEntry.Text, Location: locationEntry.Text}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			err := a.client.UpdateProfile(ctx, a.token(), me.ID, update)
			fyne.Do(func() {
				if err != nil {
					a.handleAPIError(err)
					return
				}
				dialog.ShowInformation("Profile", "Profile updated.", a.window)
			})
		}()
	})

	deleteBtn := widget.NewButton("Delete account", func() {
		dialog.ShowConfirm("Delete account",
			"This permanently deletes your account and everything you've posted. Continue?",
			func(ok bool) {
				if !ok {
					return
				}
				go func() {
					ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
					defer cancel()
					err := a.client.DeleteAccount(ctx, a.token(), me.ID)
					fyne.Do(func() {
						if err != nil {
							a.handleAPIError(err)
							return
						}
						// The account is gone; so is the session.
						a.guard.Expire()
					})
				}()
			}, a.window)
	})
	deleteBtn.Importance = widget.DangerImportance

	return container.NewVBox(
		name, username, counts, joined,
		widget.NewSeparator(),
		widget.NewLabel("Bio:"), bioEntry,
		widget.NewLabel("Location:"), locationEntry,
		saveBtn,
		widget.NewSeparator(),
		deleteBtn,
	)
}

// showUserList resolves a list of user ids and shows them in a dialog.
func (a *App) showUserList(title string, ids []string) {
	if len(ids) == 0 {
		dialog.ShowInformation(title, "No one here yet.", a.window)
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		users, err := a.client.UsersByIDs(ctx, a.token(), ids)
		fyne.Do(func() {
			if err != nil {
				a.handleAPIError(err)
				return
			}
			box := container.NewVBox()
			for _, u := range users {
				user := u
				row := widget.NewButton(fmt.Sprintf("%s  @%s", u.Name, u.Username), func() {
					a.guard.Navigate(routes.UserProfile(user.Username))
				})
				row.Alignment = widget.ButtonAlignLeading
				box.Add(row)
			}
			list := container.NewVScroll(box)
			list.SetMinSize(fyne.NewSize(300, 320))
			dialog.ShowCustom(title, "Close", list, a.window)
		})
	}()
}

// ----- Another user's profile -----

// userProfileData is what the user-profile screen renders: the profile and
// whether the signed-in user currently follows it.
type userProfileData struct {
	user      *session.Identity
	following bool
}

// loadUserProfile resolves a username and derives the follow state from a
// fresh /me response. The follow edge changes server-side, so the login-time
// snapshot in the session store cannot be trusted here.
func loadUserProfile(ctx context.Context, client *api.Client, token, username string) (*userProfileData, error) {
	user, err := client.GetUserByUsername(ctx, token, username)
	if err != nil {
		return nil, err
	}
	me, err := client.Me(ctx, token)
	if err != nil {
		return nil, err
	}
	return &userProfileData{
		user:      user,
		following: slices.Contains(me.Following, user.ID),
	}, nil
}

func (a *App) buildUserProfileView(username string) fyne.CanvasObject {
	box := container.NewVBox(widget.NewLabel("Loading profile..."))

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		data, err := loadUserProfile(ctx, a.client, a.token(), username)
		fyne.Do(func() {
			if err != nil {
				a.handleAPIError(err)
				return
			}
			box.Objects = []fyne.CanvasObject{a.userProfileDetails(data)}
			box.Refresh()
		})
	}()

	return container.NewVScroll(box)
}

func (a *App) userProfileDetails(data *userProfileData) fyne.CanvasObject {
	user := data.user
	name := widget.NewLabelWithStyle(user.Name, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	handle := widget.NewLabel("@" + user.Username)
	bio := widget.NewLabel(user.Bio)
	bio.Wrapping = fyne.TextWrapWord
	counts := widget.NewLabel(fmt.Sprintf("%d followers  ·  %d following",
		len(user.Followers), len(user.Following)))

	var followBtn *widget.Button
	label := "Follow"
	if data.following {
		label = "Unfollow"
	}
	followBtn = widget.NewButton(label, func() {
		followBtn.Disable()
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			var err error
			if data.following {
				_, err = a.client.Unfollow(ctx, a.token(), user.ID)
			} else {
				_, err = a.client.Follow(ctx, a.token(), user.ID)
			}
			fyne.Do(func() {
				if err != nil {
					followBtn.Enable()
					a.handleAPIError(err)
					return
				}
				// Rebuild: the loader re-fetches /me, so the button flips.
				a.guard.Navigate(routes.UserProfile(user.Username))
			})
		}()
	})

	return container.NewVBox(name, handle, bio, counts, followBtn)
}
