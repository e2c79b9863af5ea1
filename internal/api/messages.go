package api

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type RegisterUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Nickname string `json:"nickname,omitempty"`
}

type RegisterUserResponse struct {
	UserID string `json:"user_id"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutResponse struct{}

// Profile is the wire form of a hunt profile. Waypoints is the length of
// the hunt the server runs, so clients build the same state machine.
type Profile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Nickname  string `json:"nickname,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Progress  int    `json:"progress"`
	Waypoints int    `json:"waypoints"`
}

type ProfileResponse struct {
	Profile Profile `json:"profile"`
}

type GetProfileRequest struct{}

type SubmitScanRequest struct {
	Payload string `json:"payload"`
}

type SubmitScanResponse struct {
	Accepted bool    `json:"accepted"`
	Reason   string  `json:"reason,omitempty"`
	Target   int     `json:"target,omitempty"`
	View     string  `json:"view"`
	Profile  Profile `json:"profile"`
}

type AdvanceProgressRequest struct {
	Expected int `json:"expected"`
	Next     int `json:"next"`
}

type ResetProgressRequest struct{}

type GetStoryRequest struct {
	Index int `json:"index"`
}

type GetStoryResponse struct {
	Index    int    `json:"index"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Terminal bool   `json:"terminal"`
}

type GetHintRequest struct {
	Index int `json:"index"`
}

type GetHintResponse struct {
	Hint string `json:"hint"`
}

type ListChaptersRequest struct{}

type Chapter struct {
	Index   int    `json:"index"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type ListChaptersResponse struct {
	Chapters []Chapter `json:"chapters"`
}

type UpdateNicknameRequest struct {
	Nickname string `json:"nickname"`
}

type RequestAvatarUploadRequest struct {
	Extension string `json:"extension"`
}

type RequestAvatarUploadResponse struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
}

type ConfirmAvatarRequest struct {
	Key string `json:"key"`
}
