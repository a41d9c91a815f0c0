package service

// Task is a single to-do item as stored by Fauna.
// ID is assigned by the remote on create and never changes.
type Task struct {
	ID        string `json:"_id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// TaskPage is the page wrapper Fauna returns for collection queries.
type TaskPage struct {
	Data []Task `json:"data"`
}
