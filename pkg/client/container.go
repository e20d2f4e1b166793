package client

// Status - жизненный цикл асинхронной операции контейнера
type Status string

const (
	StatusIdle      Status = "idle"
	StatusPending   Status = "pending"
	StatusFulfilled Status = "fulfilled"
	StatusRejected  Status = "rejected"
)

// Container - общее состояние запроса, один на семейство ресурсов;
// убирает дублирование тройки pending/fulfilled/rejected по операциям
type Container struct {
	Status    Status
	IsLoading bool
	Err       string
}

func (c *Container) pending() {
	c.Status = StatusPending
	c.IsLoading = true
	c.Err = ""
}

func (c *Container) fulfilled() {
	c.Status = StatusFulfilled
	c.IsLoading = false
	c.Err = ""
}

func (c *Container) rejected(msg string) {
	c.Status = StatusRejected
	c.IsLoading = false
	c.Err = msg
}
