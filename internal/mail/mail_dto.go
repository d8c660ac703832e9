package mail

type SendRequest struct {
	To       string `json:"to" binding:"required,email"`
	Subject  string `json:"subject" binding:"required,max=255"`
	HTML     string `json:"html" binding:"required"`
	ThreadID string `json:"thread_id"`
}

type AuthURLResponse struct {
	AuthURL string `json:"auth_url"`
}

type ConnectResponse struct {
	Mailbox   string `json:"mailbox"`
	Connected bool   `json:"connected"`
}
