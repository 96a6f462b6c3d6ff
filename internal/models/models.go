package models

import "time"

// User is a row in the users table.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never exposed in JSON
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Role values stored in users.role.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// UserInfo is the public profile returned by auth endpoints.
type UserInfo struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// QuizQuestion is a row in the quizzes table.
type QuizQuestion struct {
	ID            int    `json:"id"`
	Category      string `json:"category"`
	Question      string `json:"question"`
	OptionA       string `json:"option_a"`
	OptionB       string `json:"option_b"`
	OptionC       string `json:"option_c"`
	OptionD       string `json:"option_d"`
	CorrectAnswer string `json:"correct_answer"`
}

// View returns the wire shape used by the quiz endpoints: the four option
// columns folded into a labeled map.
func (q QuizQuestion) View() QuestionView {
	return QuestionView{
		ID:       q.ID,
		Category: q.Category,
		Question: q.Question,
		Options: map[string]string{
			"a": q.OptionA,
			"b": q.OptionB,
			"c": q.OptionC,
			"d": q.OptionD,
		},
		CorrectAnswer: q.CorrectAnswer,
	}
}

type QuestionView struct {
	ID            int               `json:"id"`
	Category      string            `json:"category"`
	Question      string            `json:"question"`
	Options       map[string]string `json:"options"`
	CorrectAnswer string            `json:"correct_answer"`
}

// QuizResult is a row in the quiz_results table.
type QuizResult struct {
	ID       int       `json:"id"`
	UserID   int       `json:"user_id"`
	Category string    `json:"category"`
	Score    int       `json:"score"`
	Total    int       `json:"total"`
	TakenAt  time.Time `json:"taken_at"`
}

// Request types

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type QuestionPayload struct {
	Category      string `json:"category"`
	Question      string `json:"question"`
	OptionA       string `json:"option_a"`
	OptionB       string `json:"option_b"`
	OptionC       string `json:"option_c"`
	OptionD       string `json:"option_d"`
	CorrectAnswer string `json:"correct_answer"`
}

// SubmitQuizRequest maps question ids (as decimal strings) to the chosen
// option letter.
type SubmitQuizRequest struct {
	Category string            `json:"category"`
	Answers  map[string]string `json:"answers"`
}

// Response types

type SignupResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	User    SignupUser `json:"user"`
}

type SignupUser struct {
	ID   int    `json:"id"`
	Role string `json:"role"`
}

type LoginResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	User    UserInfo `json:"user"`
}

type LogoutResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type CheckAuthResponse struct {
	Authenticated bool      `json:"authenticated"`
	User          *UserInfo `json:"user,omitempty"`
}

type CreatedResponse struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type QuestionResponse struct {
	Success  bool         `json:"success"`
	Question QuestionView `json:"question"`
}

type SubmitQuizResponse struct {
	Score      int    `json:"score"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
	Category   string `json:"category"`
}

// ResultView is one formatted quiz result: score as "s/t", percentage with
// one decimal, date as "YYYY-MM-DD HH:MM".
type ResultView struct {
	Category   string `json:"category"`
	Score      string `json:"score"`
	Percentage string `json:"percentage"`
	Date       string `json:"date"`
}

type MyResultsResponse struct {
	User    ResultsUser  `json:"user"`
	Results []ResultView `json:"results"`
}

type ResultsUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AdminResultView is one row of the admin results listing, joined with the
// owning user's identity.
type AdminResultView struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Category   string `json:"category"`
	Score      string `json:"score"`
	Percentage string `json:"percentage"`
	Date       string `json:"date"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
