package model

// Session is the authenticated caller identity, produced by the identity
// service and passed explicitly into administrative operations. There is no
// ambient current-user state anywhere in the service.
type Session struct {
	Principal string `json:"principal"`
	Admin     bool   `json:"admin"`
	Token     string `json:"-"`
}
