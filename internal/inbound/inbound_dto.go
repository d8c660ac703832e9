package inbound

type PollBody struct {
	Mailbox string `json:"mailbox" binding:"omitempty,email"`
	Query   string `json:"query" binding:"max=200"`
	Max     int    `json:"max" binding:"omitempty,min=1,max=50"`
}
