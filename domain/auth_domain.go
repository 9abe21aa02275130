package domain

var (
	MessageSuccessCreateToken = "token issued successfully"
	MessageFailedCreateToken  = "failed to issue token"
)

type (
	CreateTokenRequest struct {
		Username string `json:"username" validate:"required,min=1,max=64"`
	}

	CreateTokenResponse struct {
		Username string `json:"username"`
		Token    string `json:"token"`
	}
)
