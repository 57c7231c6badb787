package folder

import (
	"credvault/internal/domain/folder"
)

type listOutput struct {
	Body []folder.Folder
}

type createInput struct {
	Body createRequest
}

type createRequest struct {
	Name     string `json:"name" minLength:"1" doc:"Folder name, unique among siblings"`
	ParentID *int   `json:"parent_id,omitempty" doc:"Parent folder, omit for a root folder"`
}

type folderOutput struct {
	Body *folder.Folder
}

type renameInput struct {
	ID   int `path:"id" example:"1" doc:"Folder ID"`
	Body renameRequest
}

type renameRequest struct {
	Name string `json:"name" minLength:"1" doc:"New folder name"`
}

type moveInput struct {
	ID   int `path:"id" example:"1" doc:"Folder ID"`
	Body moveRequest
}

type moveRequest struct {
	ParentID *int `json:"parent_id" doc:"New parent, null to move to the root"`
}

type deleteInput struct {
	ID int `path:"id" example:"1" doc:"Folder ID"`
}

type statusOutput struct {
	Body statusResponse
}

type statusResponse struct {
	Status string `json:"status"`
}
