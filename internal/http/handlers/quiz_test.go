package handlers_test

import (
	"fmt"
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/muhammadzayanali/solar-system-information-booklet-web-app/internal/models"
	"github.com/muhammadzayanali/solar-system-information-booklet-web-app/internal/testutil"
)

func questionBody(category string) models.QuestionPayload {
	return models.QuestionPayload{
		Category:      category,
		Question:      "Which planet has the most moons?",
		OptionA:       "Earth",
		OptionB:       "Saturn",
		OptionC:       "Mars",
		OptionD:       "Venus",
		CorrectAnswer: "b",
	}
}

func TestQuizCategories(t *testing.T) {
	srv, database, _ := newTestServer(t)
	testutil.CreateQuestion(t, database, "planets", "Q1", "a", "b", "c", "d", "a")
	testutil.CreateQuestion(t, database, "planets", "Q2", "a", "b", "c", "d", "b")
	testutil.CreateQuestion(t, database, "comets", "Q3", "a", "b", "c", "d", "c")

	w := do(srv, testutil.NewRequest(http.MethodGet, "/quiz/categories", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var categories []string
	testutil.DecodeJSON(t, w, &categories)
	sort.Strings(categories)
	if len(categories) != 2 || categories[0] != "comets" || categories[1] != "planets" {
		t.Errorf("Categories = %v", categories)
	}
}

func TestQuizQuestionsByCategory(t *testing.T) {
	srv, database, _ := newTestServer(t)
	id := testutil.CreateQuestion(t, database, "planets",
		"Which planet has the most moons?", "Earth", "Saturn", "Mars", "Venus", "b")
	testutil.CreateQuestion(t, database, "comets", "Other", "a", "b", "c", "d", "a")

	w := do(srv, testutil.NewRequest(http.MethodGet, "/quiz/planets", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var questions []models.QuestionView
	testutil.DecodeJSON(t, w, &questions)
	if len(questions) != 1 {
		t.Fatalf("Expected 1 question, got %d", len(questions))
	}

	q := questions[0]
	if q.ID != id || q.Category != "planets" {
		t.Errorf("Unexpected question: %+v", q)
	}
	if q.Options["b"] != "Saturn" || q.Options["d"] != "Venus" {
		t.Errorf("Options not reshaped: %v", q.Options)
	}
	// The answer key ships with the questions; submissions are still
	// scored server-side.
	if q.CorrectAnswer != "b" {
		t.Errorf("CorrectAnswer = %q", q.CorrectAnswer)
	}
}

func TestQuizQuestionsUnknownCategory(t *testing.T) {
	srv, _, _ := newTestServer(t)

	w := do(srv, testutil.NewRequest(http.MethodGet, "/quiz/nonexistent", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var questions []models.QuestionView
	testutil.DecodeJSON(t, w, &questions)
	if len(questions) != 0 {
		t.Errorf("Expected empty list, got %v", questions)
	}
}

func TestQuizAddQuestion(t *testing.T) {
	srv, database, store := newTestServer(t)
	adminID := testutil.CreateUser(t, database, "admin", "admin@example.com", "pw", "admin")

	w := do(srv, testutil.AuthRequest(t, store, adminID, http.MethodPost, "/quiz", questionBody("planets")))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.QuestionResponse
	testutil.DecodeJSON(t, w, &resp)
	if !resp.Success || resp.Question.ID == 0 {
		t.Fatalf("Unexpected response: %+v", resp)
	}
	if resp.Question.Options["a"] != "Earth" || resp.Question.CorrectAnswer != "b" {
		t.Errorf("Stored question mismatch: %+v", resp.Question)
	}
}

func TestQuizAddQuestionValidation(t *testing.T) {
	srv, database, store := newTestServer(t)
	adminID := testutil.CreateUser(t, database, "admin", "admin@example.com", "pw", "admin")

	body := questionBody("planets")
	body.OptionC = ""
	w := do(srv, testutil.AuthRequest(t, store, adminID, http.MethodPost, "/quiz", body))
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestQuizAddQuestionRequiresAdmin(t *testing.T) {
	srv, database, store := newTestServer(t)
	userID := testutil.CreateUser(t, database, "plain", "plain@example.com", "pw", "user")

	w := do(srv, testutil.NewRequest(http.MethodPost, "/quiz", questionBody("planets")))
	testutil.AssertStatus(t, w, http.StatusUnauthorized)

	w = do(srv, testutil.AuthRequest(t, store, userID, http.MethodPost, "/quiz", questionBody("planets")))
	testutil.AssertStatus(t, w, http.StatusForbidden)
}

func TestQuizUpdateQuestion(t *testing.T) {
	srv, database, store := newTestServer(t)
	adminID := testutil.CreateUser(t, database, "admin", "admin@example.com", "pw", "admin")
	id := testutil.CreateQuestion(t, database, "planets", "Old?", "a", "b", "c", "d", "a")

	body := questionBody("planets")
	body.CorrectAnswer = "d"
	w := do(srv, testutil.AuthRequest(t, store, adminID, http.MethodPut, fmt.Sprintf("/quiz/%d", id), body))
	testutil.AssertStatus(t, w, http.StatusOK)

	// The response carries the stored row, read back after the write.
	var resp models.QuestionResponse
	testutil.DecodeJSON(t, w, &resp)
	if resp.Question.ID != id || resp.Question.Question != body.Question || resp.Question.CorrectAnswer != "d" {
		t.Errorf("Unexpected canonical row: %+v", resp.Question)
	}
}

func TestQuizUpdateMissingQuestion(t *testing.T) {
	srv, database, store := newTestServer(t)
	adminID := testutil.CreateUser(t, database, "admin", "admin@example.com", "pw", "admin")

	w := do(srv, testutil.AuthRequest(t, store, adminID, http.MethodPut, "/quiz/424242", questionBody("planets")))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestQuizDeleteQuestion(t *testing.T) {
	srv, database, store := newTestServer(t)
	adminID := testutil.CreateUser(t, database, "admin", "admin@example.com", "pw", "admin")
	id := testutil.CreateQuestion(t, database, "planets", "Q?", "a", "b", "c", "d", "a")

	w := do(srv, testutil.AuthRequest(t, store, adminID, http.MethodDelete, fmt.Sprintf("/quiz/%d", id), nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	// Absent id: silent success.
	w = do(srv, testutil.AuthRequest(t, store, adminID, http.MethodDelete, fmt.Sprintf("/quiz/%d", id), nil))
	testutil.AssertStatus(t, w, http.StatusOK)
}

func TestQuizSubmitScoring(t *testing.T) {
	srv, database, store := newTestServer(t)
	userID := testutil.CreateUser(t, database, "taker", "taker@example.com", "pw", "user")
	q1 := testutil.CreateQuestion(t, database, "planets", "Q1", "a", "b", "c", "d", "a")
	q2 := testutil.CreateQuestion(t, database, "planets", "Q2", "a", "b", "c", "d", "b")

	w := do(srv, testutil.AuthRequest(t, store, userID, http.MethodPost, "/quiz/submit", models.SubmitQuizRequest{
		Category: "planets",
		Answers: map[string]string{
			fmt.Sprintf("%d", q1): "a",
			fmt.Sprintf("%d", q2): "c",
		},
	}))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.SubmitQuizResponse
	testutil.DecodeJSON(t, w, &resp)
	if resp.Score != 1 || resp.Total != 2 || resp.Percentage != 50 {
		t.Errorf("Score = %d/%d (%d%%), want 1/2 (50%%)", resp.Score, resp.Total, resp.Percentage)
	}
	if resp.Category != "planets" {
		t.Errorf("Category = %q", resp.Category)
	}

	// The result row is persisted for the submitting user.
	var score, total int
	err := database.QueryRow(
		"SELECT score, total FROM quiz_results WHERE user_id = ?", userID).Scan(&score, &total)
	if err != nil {
		t.Fatalf("Result row missing: %v", err)
	}
	if score != 1 || total != 2 {
		t.Errorf("Persisted %d/%d, want 1/2", score, total)
	}
}

func TestQuizSubmitEmptyAnswers(t *testing.T) {
	srv, database, store := newTestServer(t)
	userID := testutil.CreateUser(t, database, "taker", "taker@example.com", "pw", "user")
	testutil.CreateQuestion(t, database, "planets", "Q1", "a", "b", "c", "d", "a")

	// Unanswered questions count toward the total, not the score.
	w := do(srv, testutil.AuthRequest(t, store, userID, http.MethodPost, "/quiz/submit", models.SubmitQuizRequest{
		Category: "planets",
		Answers:  map[string]string{},
	}))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.SubmitQuizResponse
	testutil.DecodeJSON(t, w, &resp)
	if resp.Score != 0 || resp.Total != 1 || resp.Percentage != 0 {
		t.Errorf("Got %d/%d (%d%%), want 0/1 (0%%)", resp.Score, resp.Total, resp.Percentage)
	}
}

func TestQuizSubmitEmptyCategory(t *testing.T) {
	srv, database, store := newTestServer(t)
	userID := testutil.CreateUser(t, database, "taker", "taker@example.com", "pw", "user")

	// No questions: total 0 and percentage 0, no division fault.
	w := do(srv, testutil.AuthRequest(t, store, userID, http.MethodPost, "/quiz/submit", models.SubmitQuizRequest{
		Category: "void",
		Answers:  map[string]string{"1": "a"},
	}))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.SubmitQuizResponse
	testutil.DecodeJSON(t, w, &resp)
	if resp.Score != 0 || resp.Total != 0 || resp.Percentage != 0 {
		t.Errorf("Got %d/%d (%d%%), want 0/0 (0%%)", resp.Score, resp.Total, resp.Percentage)
	}
}

func TestQuizSubmitRequiresAuth(t *testing.T) {
	srv, _, _ := newTestServer(t)

	w := do(srv, testutil.NewRequest(http.MethodPost, "/quiz/submit", models.SubmitQuizRequest{
		Category: "planets",
		Answers:  map[string]string{},
	}))
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}

func TestQuizMyResults(t *testing.T) {
	srv, database, store := newTestServer(t)
	userID := testutil.CreateUser(t, database, "taker", "taker@example.com", "pw", "user")
	otherID := testutil.CreateUser(t, database, "other", "other@example.com", "pw", "user")

	insertResult := func(uid, score, total int, takenAt time.Time) {
		t.Helper()
		_, err := database.Exec(
			"INSERT INTO quiz_results (user_id, category, score, total, taken_at) VALUES (?, ?, ?, ?, ?)",
			uid, "planets", score, total, takenAt)
		if err != nil {
			t.Fatalf("Failed to insert result: %v", err)
		}
	}
	insertResult(userID, 1, 2, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	insertResult(userID, 2, 3, time.Date(2024, 3, 2, 18, 30, 0, 0, time.UTC))
	insertResult(otherID, 3, 3, time.Date(2024, 3, 3, 9, 0, 0, 0, time.UTC))

	w := do(srv, testutil.AuthRequest(t, store, userID, http.MethodGet, "/quiz/results", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.MyResultsResponse
	testutil.DecodeJSON(t, w, &resp)
	if resp.User.Username != "taker" || resp.User.Email != "taker@example.com" {
		t.Errorf("Unexpected user block: %+v", resp.User)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("Expected 2 results (own only), got %d", len(resp.Results))
	}

	// Newest first, score and percentage formatted, minute-resolution date.
	first := resp.Results[0]
	if first.Score != "2/3" || first.Percentage != "66.7%" || first.Date != "2024-03-02 18:30" {
		t.Errorf("Unexpected first result: %+v", first)
	}
	second := resp.Results[1]
	if second.Score != "1/2" || second.Percentage != "50.0%" || second.Date != "2024-03-01 10:00" {
		t.Errorf("Unexpected second result: %+v", second)
	}
}

func TestQuizAdminResults(t *testing.T) {
	srv, database, store := newTestServer(t)
	adminID := testutil.CreateUser(t, database, "admin", "admin@example.com", "pw", "admin")
	userID := testutil.CreateUser(t, database, "taker", "taker@example.com", "pw", "user")

	_, err := database.Exec(
		"INSERT INTO quiz_results (user_id, category, score, total, taken_at) VALUES (?, ?, ?, ?, ?)",
		userID, "comets", 1, 2, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Failed to insert result: %v", err)
	}

	// Non-admin gets 403.
	w := do(srv, testutil.AuthRequest(t, store, userID, http.MethodGet, "/admin/quiz-results", nil))
	testutil.AssertStatus(t, w, http.StatusForbidden)

	w = do(srv, testutil.AuthRequest(t, store, adminID, http.MethodGet, "/admin/quiz-results", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var results []models.AdminResultView
	testutil.DecodeJSON(t, w, &results)
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	r := results[0]
	if r.Username != "taker" || r.Email != "taker@example.com" {
		t.Errorf("Owner identity missing: %+v", r)
	}
	if r.Score != "1/2" || r.Percentage != "50.0%" || r.Date != "2024-03-01 10:00" {
		t.Errorf("Unexpected formatting: %+v", r)
	}
}

func TestAdminDemotionTakesEffectImmediately(t *testing.T) {
	srv, database, store := newTestServer(t)
	adminID := testutil.CreateUser(t, database, "admin", "admin@example.com", "pw", "admin")

	w := do(srv, testutil.AuthRequest(t, store, adminID, http.MethodPost, "/quiz", questionBody("planets")))
	testutil.AssertStatus(t, w, http.StatusOK)

	// Demote in storage; the unchanged session must stop working on the
	// very next request.
	if _, err := database.Exec("UPDATE users SET role = 'user' WHERE id = ?", adminID); err != nil {
		t.Fatalf("Demotion failed: %v", err)
	}

	w = do(srv, testutil.AuthRequest(t, store, adminID, http.MethodPost, "/quiz", questionBody("planets")))
	testutil.AssertStatus(t, w, http.StatusForbidden)
}
