package model

// UserProfile est l'identité fournie par le provider d'authentification
// (collaborateur externe : Google Sign-In côté mobile). Le backend ne s'en
// sert que comme source des champs reporter/assignee.
type UserProfile struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}
