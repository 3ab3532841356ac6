package repository

import (
	"time"

	model "github.com/anirudh-pedro/Bug-Tracker-sub001/internal/models"
)

func strPtr(s string) *string { return &s }

// SampleBugs retourne le jeu de données de démo chargé en mode mémoire,
// le même que celui affiché par l'app mobile au premier lancement.
func SampleBugs() []model.Bug {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	return []model.Bug{
		{
			ID:          "BUG-001",
			Title:       "Login fails with Google Sign-In",
			Description: "Tapping the Google button crashes the app on Android 14. Works fine on iOS.",
			Priority:    model.PriorityCritical,
			Status:      model.StatusOpen,
			Assignee:    strPtr("alice"),
			Reporter:    "bob",
			CreatedAt:   base,
			UpdatedAt:   base.Add(26 * time.Hour),
			Tags:        []string{"auth", "android"},
			Attachments: []model.Attachment{},
			Comments: []model.Comment{
				{ID: "c-001", Author: "alice", Content: "Reproduced on Pixel 8, looking into it", CreatedAt: base.Add(2 * time.Hour)},
			},
			Environment:      &model.Environment{Platform: "android", Version: "14", Device: "Pixel 8"},
			StepsToReproduce: []string{"Open the app", "Tap Sign in with Google", "App crashes"},
			ExpectedBehavior: strPtr("User is signed in and lands on the dashboard"),
			ActualBehavior:   strPtr("App closes immediately"),
		},
		{
			ID:          "BUG-002",
			Title:       "Database timeout on bug list refresh",
			Description: "Pull-to-refresh sometimes hangs for 20 seconds then shows a network error.",
			Priority:    model.PriorityHigh,
			Status:      model.StatusInProgress,
			Assignee:    strPtr("carol"),
			Reporter:    "alice",
			CreatedAt:   base.Add(24 * time.Hour),
			UpdatedAt:   base.Add(49 * time.Hour),
			Tags:        []string{"backend", "performance"},
			Attachments: []model.Attachment{},
			Comments:    []model.Comment{},
			Environment: &model.Environment{Platform: "ios", Version: "17.4", Device: "iPhone 15"},
		},
		{
			ID:          "BUG-003",
			Title:       "Dark mode colors unreadable on stats screen",
			Description: "Chart labels stay dark grey on a black background in dark mode.",
			Priority:    model.PriorityLow,
			Status:      model.StatusResolved,
			Assignee:    strPtr("alice"),
			Reporter:    "dave",
			CreatedAt:   base.Add(48 * time.Hour),
			UpdatedAt:   base.Add(72 * time.Hour),
			Tags:        []string{"ui", "dark-mode"},
			Attachments: []model.Attachment{
				{ID: "a-001", Filename: "screenshot.png", Size: 204800, MimeType: "image/png", URL: "https://cdn.example.com/a-001.png"},
			},
			Comments: []model.Comment{
				{ID: "c-002", Author: "alice", Content: "Fixed in build 142", CreatedAt: base.Add(71 * time.Hour)},
			},
		},
		{
			ID:          "BUG-004",
			Title:       "Duplicate notifications after reopening a bug",
			Description: "Reopening a closed bug sends the assignment push twice.",
			Priority:    model.PriorityMedium,
			Status:      model.StatusReopened,
			Reporter:    "carol",
			CreatedAt:   base.Add(72 * time.Hour),
			UpdatedAt:   base.Add(96 * time.Hour),
			Tags:        []string{"notifications", "backend"},
			Attachments: []model.Attachment{},
			Comments:    []model.Comment{},
		},
		{
			ID:          "BUG-005",
			Title:       "Onboarding carousel skips last slide",
			Description: "Swiping fast on the onboarding screens jumps straight to login.",
			Priority:    model.PriorityLow,
			Status:      model.StatusClosed,
			Assignee:    strPtr("dave"),
			Reporter:    "bob",
			CreatedAt:   base.Add(96 * time.Hour),
			UpdatedAt:   base.Add(120 * time.Hour),
			Tags:        []string{"ui", "onboarding"},
			Attachments: []model.Attachment{},
			Comments:    []model.Comment{},
		},
	}
}
