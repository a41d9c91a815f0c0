package client

import "faunatodo/internal/service"

// GraphQL documents sent through the proxy. Field selections match
// service.Task.
const (
	AllTasksQuery = `query AllTasksQuery {
  allTasks {
    data {
      _id
      title
      completed
    }
  }
}`

	CreateTaskMutation = `mutation CreateTask($title: String!, $completed: Boolean!) {
  createTask(data: { title: $title, completed: $completed }) {
    _id
    title
    completed
  }
}`

	DeleteTaskMutation = `mutation DeleteTask($id: ID!) {
  deleteTask(id: $id) {
    _id
  }
}`

	UpdateTaskMutation = `mutation UpdateTask($id: ID!, $title: String!, $completed: Boolean!) {
  updateTask(id: $id, data: { title: $title, completed: $completed }) {
    _id
    title
    completed
  }
}`

	RenameTaskMutation = `mutation RenameTask($id: ID!, $title: String!) {
  updateTask(id: $id, data: { title: $title }) {
    _id
    title
    completed
  }
}`
)

type allTasksData struct {
	AllTasks *service.TaskPage `json:"allTasks"`
}

type createTaskData struct {
	CreateTask *service.Task `json:"createTask"`
}

type deleteTaskData struct {
	DeleteTask *service.Task `json:"deleteTask"`
}

type updateTaskData struct {
	UpdateTask *service.Task `json:"updateTask"`
}
