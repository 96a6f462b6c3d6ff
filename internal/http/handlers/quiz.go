package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/muhammadzayanali/solar-system-information-booklet-web-app/internal/db"
	"github.com/muhammadzayanali/solar-system-information-booklet-web-app/internal/http/middleware"
	"github.com/muhammadzayanali/solar-system-information-booklet-web-app/internal/models"
)

const resultDateLayout = "2006-01-02 15:04"

type QuizHandler struct {
	db *db.DB
}

func NewQuizHandler(database *db.DB) *QuizHandler {
	return &QuizHandler{db: database}
}

// Categories handles GET /quiz/categories.
func (h *QuizHandler) Categories(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query("SELECT DISTINCT category FROM quizzes")
	if err != nil {
		middleware.StorageError(w, "failed to list categories", err)
		return
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			middleware.StorageError(w, "failed to scan category", err)
			return
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		middleware.StorageError(w, "failed to list categories", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, categories)
}

// Questions handles GET /quiz/{category}. The payload includes the correct
// answer letter; the client grades locally while the submit endpoint
// re-scores server-side.
func (h *QuizHandler) Questions(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]

	rows, err := h.db.Query(`
		SELECT id, category, question, option_a, option_b, option_c, option_d, correct_answer
		FROM quizzes
		WHERE category = ?`, category)
	if err != nil {
		middleware.StorageError(w, "failed to list questions", err)
		return
	}
	defer rows.Close()

	questions := []models.QuestionView{}
	for rows.Next() {
		var q models.QuizQuestion
		if err := rows.Scan(&q.ID, &q.Category, &q.Question,
			&q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD, &q.CorrectAnswer); err != nil {
			middleware.StorageError(w, "failed to scan question", err)
			return
		}
		questions = append(questions, q.View())
	}
	if err := rows.Err(); err != nil {
		middleware.StorageError(w, "failed to list questions", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, questions)
}

// AddQuestion handles POST /quiz. Admin only.
func (h *QuizHandler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	req, ok := parseQuestion(w, r)
	if !ok {
		return
	}

	id, err := h.db.InsertID(`
		INSERT INTO quizzes (category, question, option_a, option_b, option_c, option_d, correct_answer)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		req.Category, req.Question, req.OptionA, req.OptionB, req.OptionC, req.OptionD, req.CorrectAnswer)
	if err != nil {
		middleware.StorageError(w, "failed to insert question", err)
		return
	}

	h.respondWithQuestion(w, int(id))
}

// UpdateQuestion handles PUT /quiz/{id}. Admin only; full replace, then the
// stored row is read back and returned.
func (h *QuizHandler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	req, ok := parseQuestion(w, r)
	if !ok {
		return
	}

	_, err := h.db.Exec(`
		UPDATE quizzes
		SET category = ?, question = ?, option_a = ?, option_b = ?, option_c = ?, option_d = ?, correct_answer = ?
		WHERE id = ?`,
		req.Category, req.Question, req.OptionA, req.OptionB, req.OptionC, req.OptionD, req.CorrectAnswer, id)
	if err != nil {
		middleware.StorageError(w, "failed to update question", err)
		return
	}

	h.respondWithQuestion(w, id)
}

// DeleteQuestion handles DELETE /quiz/{id}. Admin only; deleting an absent
// id succeeds.
func (h *QuizHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if _, err := h.db.Exec("DELETE FROM quizzes WHERE id = ?", id); err != nil {
		middleware.StorageError(w, "failed to delete question", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{Success: true})
}

// Submit handles POST /quiz/submit. Authenticated. The score is computed
// against the stored answer key; the total counts every question in the
// category, so unanswered questions lower the percentage.
func (h *QuizHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitQuizRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Category == "" || req.Answers == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	rows, err := h.db.Query("SELECT id, correct_answer FROM quizzes WHERE category = ?", req.Category)
	if err != nil {
		middleware.StorageError(w, "failed to load answer key", err)
		return
	}
	defer rows.Close()

	key := map[string]string{}
	for rows.Next() {
		var id int
		var answer string
		if err := rows.Scan(&id, &answer); err != nil {
			middleware.StorageError(w, "failed to scan answer key", err)
			return
		}
		key[strconv.Itoa(id)] = answer
	}
	if err := rows.Err(); err != nil {
		middleware.StorageError(w, "failed to load answer key", err)
		return
	}

	score := 0
	for questionID, answer := range req.Answers {
		if correct, ok := key[questionID]; ok && correct == answer {
			score++
		}
	}
	total := len(key)

	userID := middleware.UserID(r)
	_, err = h.db.Exec(`
		INSERT INTO quiz_results (user_id, category, score, total, taken_at)
		VALUES (?, ?, ?, ?, ?)`,
		userID, req.Category, score, total, time.Now())
	if err != nil {
		middleware.StorageError(w, "failed to store result", err)
		return
	}

	percentage := 0
	if total > 0 {
		percentage = score * 100 / total
	}

	middleware.JSONResponse(w, http.StatusOK, models.SubmitQuizResponse{
		Score:      score,
		Total:      total,
		Percentage: percentage,
		Category:   req.Category,
	})
}

// MyResults handles GET /quiz/results. Authenticated; newest first.
func (h *QuizHandler) MyResults(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	var user models.ResultsUser
	err := h.db.QueryRow("SELECT username, email FROM users WHERE id = ?", userID).
		Scan(&user.Username, &user.Email)
	if err != nil {
		middleware.StorageError(w, "failed to load user", err)
		return
	}

	rows, err := h.db.Query(`
		SELECT category, score, total, taken_at
		FROM quiz_results
		WHERE user_id = ?
		ORDER BY taken_at DESC`, userID)
	if err != nil {
		middleware.StorageError(w, "failed to load results", err)
		return
	}
	defer rows.Close()

	results := []models.ResultView{}
	for rows.Next() {
		var category string
		var score, total int
		var rawTakenAt any
		if err := rows.Scan(&category, &score, &total, &rawTakenAt); err != nil {
			middleware.StorageError(w, "failed to scan result", err)
			return
		}
		takenAt, err := db.TimeValue(rawTakenAt)
		if err != nil {
			middleware.StorageError(w, "failed to decode result timestamp", err)
			return
		}

		results = append(results, models.ResultView{
			Category:   category,
			Score:      fmt.Sprintf("%d/%d", score, total),
			Percentage: formatPercentage(score, total),
			Date:       takenAt.Format(resultDateLayout),
		})
	}
	if err := rows.Err(); err != nil {
		middleware.StorageError(w, "failed to load results", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MyResultsResponse{
		User:    user,
		Results: results,
	})
}

// AllResults handles GET /admin/quiz-results via the precomputed aggregate
// view joining results with their owners.
func (h *QuizHandler) AllResults(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT username, email, category, score, total, percentage, taken_at
		FROM user_quiz_results_view
		ORDER BY taken_at DESC`)
	if err != nil {
		middleware.StorageError(w, "failed to load results", err)
		return
	}
	defer rows.Close()

	results := []models.AdminResultView{}
	for rows.Next() {
		var username, email, category string
		var score, total int
		var rawPercentage, rawTakenAt any
		if err := rows.Scan(&username, &email, &category, &score, &total, &rawPercentage, &rawTakenAt); err != nil {
			middleware.StorageError(w, "failed to scan result", err)
			return
		}
		percentage, err := db.FloatValue(rawPercentage)
		if err != nil {
			middleware.StorageError(w, "failed to decode percentage", err)
			return
		}
		takenAt, err := db.TimeValue(rawTakenAt)
		if err != nil {
			middleware.StorageError(w, "failed to decode result timestamp", err)
			return
		}

		results = append(results, models.AdminResultView{
			Username:   username,
			Email:      email,
			Category:   category,
			Score:      fmt.Sprintf("%d/%d", score, total),
			Percentage: fmt.Sprintf("%.1f%%", percentage),
			Date:       takenAt.Format(resultDateLayout),
		})
	}
	if err := rows.Err(); err != nil {
		middleware.StorageError(w, "failed to load results", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}

func (h *QuizHandler) respondWithQuestion(w http.ResponseWriter, id int) {
	var q models.QuizQuestion
	err := h.db.QueryRow(`
		SELECT id, category, question, option_a, option_b, option_c, option_d, correct_answer
		FROM quizzes
		WHERE id = ?`, id).
		Scan(&q.ID, &q.Category, &q.Question,
			&q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD, &q.CorrectAnswer)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Question not found")
		return
	}
	if err != nil {
		middleware.StorageError(w, "failed to load question", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.QuestionResponse{
		Success:  true,
		Question: q.View(),
	})
}

func parseQuestion(w http.ResponseWriter, r *http.Request) (models.QuestionPayload, bool) {
	var req models.QuestionPayload
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return req, false
	}

	if req.Category == "" || req.Question == "" ||
		req.OptionA == "" || req.OptionB == "" || req.OptionC == "" || req.OptionD == "" ||
		req.CorrectAnswer == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Missing required fields")
		return req, false
	}

	return req, true
}

func formatPercentage(score, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(score)/float64(total)*100)
}
