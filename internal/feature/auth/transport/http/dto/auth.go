// Package dto defines data transfer objects for the auth feature's HTTP transport layer.
package dto

import "time"

// RegisterReq is the registration form. Field rules are enforced by the usecase so
// that every violation gets a readable message.
type RegisterReq struct {
	Username        string `form:"username" json:"username"`
	Email           string `form:"email" json:"email"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}

// LoginReq is the login form.
type LoginReq struct {
	Email    string `form:"email" json:"email" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// LoginResp answers a JSON login. The token can be sent back as a bearer token.
type LoginResp struct {
	Status    string    `json:"status"`
	Username  string    `json:"username"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserResp is the public view of a registered user.
type UserResp struct {
	Status   string `json:"status"`
	ID       uint   `json:"id"`
	Username string `json:"username"`
}
