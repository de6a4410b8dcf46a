// internal/workers/conversation/generic-answer/models.go
package genericanswer

type Input struct {
	Question string `json:"question"`
}

type Output struct {
	Answer string `json:"answer"`
}
