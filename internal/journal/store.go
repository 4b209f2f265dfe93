package journal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sageline/sage/internal/db"
)

// timeLayout is the canonical storage format for timestamps (UTC).
const timeLayout = db.TimeLayout

// Store provides read/write access to the Sage SQLite database.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given DB.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Conn exposes the underlying *sql.DB for low-level queries.
func (s *Store) Conn() *sql.DB {
	return s.db.Conn()
}

// ---- Users ----

// CreateUser persists a new user. A missing ID is generated.
func (s *Store) CreateUser(u User) (User, error) {
	if strings.TrimSpace(u.Name) == "" {
		return User{}, fmt.Errorf("%w: user name must not be empty", ErrInvalid)
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Timezone == "" {
		u.Timezone = "UTC"
	}
	if u.Preferences == "" {
		u.Preferences = "{}"
	}
	_, err := s.db.Conn().Exec(`
		INSERT INTO users (user_id, name, email, timezone, preferences)
		VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Name, nullable(u.Email), u.Timezone, u.Preferences,
	)
	if err != nil {
		return User{}, fmt.Errorf("store: create user: %w", err)
	}
	return s.GetUser(u.ID)
}

// GetUser returns the user with the given ID.
func (s *Store) GetUser(id string) (User, error) {
	var u User
	var email sql.NullString
	var createdAt string
	err := s.db.Conn().QueryRow(
		`SELECT user_id, name, email, timezone, preferences, created_at FROM users WHERE user_id = ?`, id,
	).Scan(&u.ID, &u.Name, &email, &u.Timezone, &u.Preferences, &createdAt)
	if err == sql.ErrNoRows {
		return u, fmt.Errorf("%w: user %q", ErrNotFound, id)
	}
	if err != nil {
		return u, fmt.Errorf("store: get user: %w", err)
	}
	u.Email = email.String
	u.CreatedAt = parseTime(createdAt)
	return u, nil
}

// FirstUser returns the oldest user record. The CLI runs single-profile by
// default, so commands without an explicit --user resolve through this.
func (s *Store) FirstUser() (User, error) {
	var id string
	err := s.db.Conn().QueryRow(`SELECT user_id FROM users ORDER BY created_at LIMIT 1`).Scan(&id)
	if err == sql.ErrNoRows {
		return User{}, fmt.Errorf("%w: no user profile — run `sage init` first", ErrNotFound)
	}
	if err != nil {
		return User{}, fmt.Errorf("store: first user: %w", err)
	}
	return s.GetUser(id)
}

// ---- Habits ----

// CreateHabit persists a new habit. A missing ID is generated and an empty
// frequency defaults to daily.
func (s *Store) CreateHabit(h Habit) (Habit, error) {
	if strings.TrimSpace(h.Name) == "" {
		return Habit{}, fmt.Errorf("%w: habit name must not be empty", ErrInvalid)
	}
	if h.Frequency == "" {
		h.Frequency = FrequencyDaily
	}
	if !ValidFrequency(h.Frequency) {
		return Habit{}, fmt.Errorf("%w: unknown frequency %q (valid: daily, weekly, monthly)", ErrInvalid, h.Frequency)
	}
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	_, err := s.db.Conn().Exec(`
		INSERT INTO habits (habit_id, user_id, name, description, frequency, target_value, unit, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1)`,
		h.ID, h.UserID, h.Name, nullable(h.Description), string(h.Frequency),
		nullableFloat(h.TargetValue), nullable(h.Unit),
	)
	if err != nil {
		return Habit{}, fmt.Errorf("store: create habit: %w", err)
	}
	return s.GetHabit(h.ID)
}

// GetHabit returns the habit with the given ID.
func (s *Store) GetHabit(id string) (Habit, error) {
	var h Habit
	var desc, unit sql.NullString
	var target sql.NullFloat64
	var freq, createdAt string
	err := s.db.Conn().QueryRow(`
		SELECT habit_id, user_id, name, description, frequency, target_value, unit, is_active, created_at
		FROM habits WHERE habit_id = ?`, id,
	).Scan(&h.ID, &h.UserID, &h.Name, &desc, &freq, &target, &unit, &h.IsActive, &createdAt)
	if err == sql.ErrNoRows {
		return h, fmt.Errorf("%w: habit %q", ErrNotFound, id)
	}
	if err != nil {
		return h, fmt.Errorf("store: get habit: %w", err)
	}
	h.Description = desc.String
	h.Frequency = Frequency(freq)
	h.TargetValue = target.Float64
	h.Unit = unit.String
	h.CreatedAt = parseTime(createdAt)
	return h, nil
}

// ListHabits returns a user's habits, newest first. activeOnly skips
// deactivated habits.
func (s *Store) ListHabits(userID string, activeOnly bool) ([]Habit, error) {
	query := `SELECT habit_id, user_id, name, description, frequency, target_value, unit, is_active, created_at
		FROM habits WHERE user_id = ?`
	if activeOnly {
		query += ` AND is_active = 1`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Conn().Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("store: list habits: %w", err)
	}
	defer rows.Close()

	var out []Habit
	for rows.Next() {
		var h Habit
		var desc, unit sql.NullString
		var target sql.NullFloat64
		var freq, createdAt string
		if err := rows.Scan(&h.ID, &h.UserID, &h.Name, &desc, &freq, &target, &unit, &h.IsActive, &createdAt); err != nil {
			return nil, err
		}
		h.Description = desc.String
		h.Frequency = Frequency(freq)
		h.TargetValue = target.Float64
		h.Unit = unit.String
		h.CreatedAt = parseTime(createdAt)
		out = append(out, h)
	}
	return out, rows.Err()
}

// SetHabitActive toggles a habit's active flag, the only mutation a habit
// supports after creation.
func (s *Store) SetHabitActive(id string, active bool) error {
	res, err := s.db.Conn().Exec(`UPDATE habits SET is_active = ? WHERE habit_id = ?`, active, id)
	if err != nil {
		return fmt.Errorf("store: set habit active: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: habit %q", ErrNotFound, id)
	}
	return nil
}

// ---- Habit logs ----

// InsertHabitLog appends an immutable log entry. A missing ID is generated;
// a zero LoggedAt defaults to now.
func (s *Store) InsertHabitLog(l HabitLog) (HabitLog, error) {
	if l.HabitID == "" {
		return HabitLog{}, fmt.Errorf("%w: habit_id must not be empty", ErrInvalid)
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.LoggedAt.IsZero() {
		l.LoggedAt = time.Now()
	}
	_, err := s.db.Conn().Exec(`
		INSERT INTO habit_logs (log_id, habit_id, user_id, value, notes, logged_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		l.ID, l.HabitID, l.UserID, l.Value, nullable(l.Notes), l.LoggedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return HabitLog{}, fmt.Errorf("store: insert habit log: %w", err)
	}
	return l, nil
}

// ListHabitLogs returns a user's logs within the last `days` days, newest
// first. Pass an empty habitID to include all habits.
func (s *Store) ListHabitLogs(userID, habitID string, days int) ([]HabitLog, error) {
	query := `SELECT log_id, habit_id, user_id, value, notes, logged_at
		FROM habit_logs
		WHERE user_id = ? AND logged_at >= datetime('now', '-' || ? || ' days')`
	args := []any{userID, days}
	if habitID != "" {
		query += ` AND habit_id = ?`
		args = append(args, habitID)
	}
	query += ` ORDER BY logged_at DESC`

	rows, err := s.db.Conn().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list habit logs: %w", err)
	}
	defer rows.Close()

	var out []HabitLog
	for rows.Next() {
		var l HabitLog
		var notes sql.NullString
		var loggedAt string
		if err := rows.Scan(&l.ID, &l.HabitID, &l.UserID, &l.Value, &notes, &loggedAt); err != nil {
			return nil, err
		}
		l.Notes = notes.String
		l.LoggedAt = parseTime(loggedAt)
		out = append(out, l)
	}
	return out, rows.Err()
}

// ---- Goals ----

// CreateGoal persists a new goal. A missing ID is generated; an empty status
// defaults to active.
func (s *Store) CreateGoal(g Goal) (Goal, error) {
	if strings.TrimSpace(g.Title) == "" {
		return Goal{}, fmt.Errorf("%w: goal title must not be empty", ErrInvalid)
	}
	if g.Status == "" {
		g.Status = GoalActive
	}
	if !ValidGoalStatus(g.Status) {
		return Goal{}, fmt.Errorf("%w: unknown goal status %q", ErrInvalid, g.Status)
	}
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	var targetDate any
	if g.TargetDate != nil {
		targetDate = g.TargetDate.UTC().Format(timeLayout)
	}
	_, err := s.db.Conn().Exec(`
		INSERT INTO goals (goal_id, user_id, title, description, target_date, status)
		VALUES (?, ?, ?, ?, ?, ?)`,
		g.ID, g.UserID, g.Title, nullable(g.Description), targetDate, string(g.Status),
	)
	if err != nil {
		return Goal{}, fmt.Errorf("store: create goal: %w", err)
	}
	return s.GetGoal(g.ID)
}

// GetGoal returns the goal with the given ID.
func (s *Store) GetGoal(id string) (Goal, error) {
	row := s.db.Conn().QueryRow(`
		SELECT goal_id, user_id, title, description, target_date, status, created_at, completed_at
		FROM goals WHERE goal_id = ?`, id)
	g, err := scanGoal(row)
	if err == sql.ErrNoRows {
		return g, fmt.Errorf("%w: goal %q", ErrNotFound, id)
	}
	if err != nil {
		return g, fmt.Errorf("store: get goal: %w", err)
	}
	return g, nil
}

// ListGoals returns a user's goals, newest first. Pass an empty status to
// include all statuses.
func (s *Store) ListGoals(userID string, status GoalStatus) ([]Goal, error) {
	query := `SELECT goal_id, user_id, title, description, target_date, status, created_at, completed_at
		FROM goals WHERE user_id = ?`
	args := []any{userID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Conn().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list goals: %w", err)
	}
	defer rows.Close()

	var out []Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// UpdateGoalStatus moves a goal through its lifecycle. Completing a goal
// stamps completed_at.
func (s *Store) UpdateGoalStatus(id string, status GoalStatus) error {
	if !ValidGoalStatus(status) {
		return fmt.Errorf("%w: unknown goal status %q", ErrInvalid, status)
	}
	var completedAt any
	if status == GoalCompleted {
		completedAt = time.Now().UTC().Format(timeLayout)
	}
	res, err := s.db.Conn().Exec(
		`UPDATE goals SET status = ?, completed_at = ? WHERE goal_id = ?`,
		string(status), completedAt, id,
	)
	if err != nil {
		return fmt.Errorf("store: update goal status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: goal %q", ErrNotFound, id)
	}
	return nil
}

// ---- Reflections ----

// CreateReflection persists a generated reflection.
func (s *Store) CreateReflection(r Reflection) (Reflection, error) {
	if strings.TrimSpace(r.Content) == "" {
		return Reflection{}, fmt.Errorf("%w: reflection content must not be empty", ErrInvalid)
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	insights, _ := json.Marshal(r.KeyInsights)
	suggestions, _ := json.Marshal(r.Suggestions)
	_, err := s.db.Conn().Exec(`
		INSERT INTO reflections (reflection_id, user_id, content, sentiment_score, key_insights, suggestions)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.UserID, r.Content, r.SentimentScore, string(insights), string(suggestions),
	)
	if err != nil {
		return Reflection{}, fmt.Errorf("store: create reflection: %w", err)
	}
	return r, nil
}

// ListReflections returns a user's reflections from the last `days` days,
// newest first.
func (s *Store) ListReflections(userID string, days int) ([]Reflection, error) {
	rows, err := s.db.Conn().Query(`
		SELECT reflection_id, user_id, content, sentiment_score, key_insights, suggestions, created_at
		FROM reflections
		WHERE user_id = ? AND created_at >= datetime('now', '-' || ? || ' days')
		ORDER BY created_at DESC`,
		userID, days,
	)
	if err != nil {
		return nil, fmt.Errorf("store: list reflections: %w", err)
	}
	defer rows.Close()

	var out []Reflection
	for rows.Next() {
		var r Reflection
		var sentiment sql.NullFloat64
		var insights, suggestions sql.NullString
		var createdAt string
		if err := rows.Scan(&r.ID, &r.UserID, &r.Content, &sentiment, &insights, &suggestions, &createdAt); err != nil {
			return nil, err
		}
		r.SentimentScore = sentiment.Float64
		if insights.String != "" {
			_ = json.Unmarshal([]byte(insights.String), &r.KeyInsights)
		}
		if suggestions.String != "" {
			_ = json.Unmarshal([]byte(suggestions.String), &r.Suggestions)
		}
		r.CreatedAt = parseTime(createdAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

// ---- Conversations ----

// SaveConversation appends a chat message.
func (s *Store) SaveConversation(c Conversation) (Conversation, error) {
	if c.Role != "user" && c.Role != "assistant" {
		return Conversation{}, fmt.Errorf("%w: unknown conversation role %q", ErrInvalid, c.Role)
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	_, err := s.db.Conn().Exec(`
		INSERT INTO conversations (message_id, user_id, role, content, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Role, c.Content, c.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return Conversation{}, fmt.Errorf("store: save conversation: %w", err)
	}
	return c, nil
}

// ConversationHistory returns the user's most recent `limit` messages in
// chronological order (newest-first from the DB, reversed for display).
func (s *Store) ConversationHistory(userID string, limit int) ([]Conversation, error) {
	rows, err := s.db.Conn().Query(`
		SELECT message_id, user_id, role, content, created_at
		FROM conversations
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("store: conversation history: %w", err)
	}
	defer rows.Close()

	var out []Conversation
	for rows.Next() {
		var c Conversation
		var createdAt string
		if err := rows.Scan(&c.ID, &c.UserID, &c.Role, &c.Content, &createdAt); err != nil {
			return nil, err
		}
		c.CreatedAt = parseTime(createdAt)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// ---- Helpers ----

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGoal(row rowScanner) (Goal, error) {
	var g Goal
	var desc sql.NullString
	var targetDate, completedAt sql.NullString
	var status, createdAt string
	err := row.Scan(&g.ID, &g.UserID, &g.Title, &desc, &targetDate, &status, &createdAt, &completedAt)
	if err != nil {
		return g, err
	}
	g.Description = desc.String
	g.Status = GoalStatus(status)
	g.CreatedAt = parseTime(createdAt)
	if targetDate.Valid {
		t := parseTime(targetDate.String)
		g.TargetDate = &t
	}
	if completedAt.Valid {
		t := parseTime(completedAt.String)
		g.CompletedAt = &t
	}
	return g, nil
}

// parseTime delegates to the shared layout list in internal/db.
func parseTime(s string) time.Time {
	return db.ParseTime(s)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableFloat(f float64) any {
	if f == 0 {
		return nil
	}
	return f
}
