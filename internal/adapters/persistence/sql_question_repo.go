package persistence

import (
	"context"
	"database/sql"
	"errors"

	"quizsalon/internal/domain/apperr"
	"quizsalon/internal/domain/quiz"
	"quizsalon/internal/ports"
)

// SQLQuestionRepository lê o banco de perguntas.
type SQLQuestionRepository struct {
	sqlBase
}

func NewSQLQuestionRepository(db *sql.DB, driver string) ports.QuestionRepository {
	return &SQLQuestionRepository{sqlBase: newSQLBase(db, driver)}
}

// FindByDifficulty carrega as perguntas de um nível com as alternativas, sem a flag de correção.
func (r *SQLQuestionRepository) FindByDifficulty(ctx context.Context, difficulty int) ([]quiz.Question, error) {
	return r.queryQuestions(ctx, "q.difficulty = ?", difficulty)
}

// FindByID carrega uma pergunta com as alternativas.
func (r *SQLQuestionRepository) FindByID(ctx context.Context, id int64) (*quiz.Question, error) {
	questions, err := r.queryQuestions(ctx, "q.id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, nil
	}
	return &questions[0], nil
}

// queryQuestions agrupa as linhas do join pergunta/alternativas.
func (r *SQLQuestionRepository) queryQuestions(ctx context.Context, where string, arg any) ([]quiz.Question, error) {
	query := `
		SELECT q.id, q.label, q.difficulty, a.id, a.label
		FROM questions q
		LEFT JOIN question_answers qa ON qa.question_id = q.id
		LEFT JOIN answers a ON a.id = qa.answer_id
		WHERE ` + where + `
		ORDER BY q.id ASC, a.id ASC
	`
	rows, err := r.db.QueryContext(ctx, r.q(query), arg)
	if err != nil {
		return nil, apperr.Store("buscar perguntas", err)
	}
	defer rows.Close()

	var questions []quiz.Question
	index := make(map[int64]int)
	for rows.Next() {
		var (
			q           quiz.Question
			answerID    sql.NullInt64
			answerLabel sql.NullString
		)
		if err := rows.Scan(&q.ID, &q.Label, &q.Difficulty, &answerID, &answerLabel); err != nil {
			return nil, apperr.Store("buscar perguntas", err)
		}

		i, seen := index[q.ID]
		if !seen {
			q.AnswerOptions = []quiz.AnswerOption{}
			questions = append(questions, q)
			i = len(questions) - 1
			index[q.ID] = i
		}
		if answerID.Valid {
			questions[i].AnswerOptions = append(questions[i].AnswerOptions, quiz.AnswerOption{
				ID:    answerID.Int64,
				Label: answerLabel.String,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store("buscar perguntas", err)
	}
	return questions, nil
}

// AnswerCorrectness consulta a flag de correção do par (pergunta, resposta).
func (r *SQLQuestionRepository) AnswerCorrectness(ctx context.Context, questionID, answerID int64) (bool, string, bool, error) {
	query := `
		SELECT qa.is_correct, a.label
		FROM question_answers qa
		JOIN answers a ON a.id = qa.answer_id
		WHERE qa.question_id = ? AND qa.answer_id = ?
	`
	var (
		correct bool
		label   string
	)
	err := r.db.QueryRowContext(ctx, r.q(query), questionID, answerID).Scan(&correct, &label)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, "", false, nil
		}
		return false, "", false, apperr.Store("verificar resposta", err)
	}
	return correct, label, true, nil
}

// CanonicalAnswer devolve o texto da resposta correta de uma pergunta.
func (r *SQLQuestionRepository) CanonicalAnswer(ctx context.Context, questionID int64) (string, bool, error) {
	query := `
		SELECT a.label
		FROM question_answers qa
		JOIN answers a ON a.id = qa.answer_id
		WHERE qa.question_id = ? AND qa.is_correct = TRUE
		ORDER BY a.id ASC
		LIMIT 1
	`
	var label string
	err := r.db.QueryRowContext(ctx, r.q(query), questionID).Scan(&label)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, apperr.Store("buscar resposta correta", err)
	}
	return label, true, nil
}

// Create cadastra a pergunta e as alternativas numa única transação.
func (r *SQLQuestionRepository) Create(ctx context.Context, d quiz.Draft) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, apperr.Store("cadastrar pergunta", err)
	}
	defer tx.Rollback()

	var questionID int64
	err = tx.QueryRowContext(ctx, r.q(`INSERT INTO questions (label, difficulty) VALUES (?, ?) RETURNING id`),
		d.Label, d.Difficulty,
	).Scan(&questionID)
	if err != nil {
		return 0, apperr.Store("cadastrar pergunta", err)
	}

	link, err := tx.PrepareContext(ctx, r.q(`INSERT INTO question_answers (question_id, answer_id, is_correct) VALUES (?, ?, ?)`))
	if err != nil {
		return 0, apperr.Store("cadastrar pergunta", err)
	}
	defer link.Close()

	for i, label := range d.Options {
		var answerID int64
		if err := tx.QueryRowContext(ctx, r.q(`INSERT INTO answers (label) VALUES (?) RETURNING id`), label).Scan(&answerID); err != nil {
			return 0, apperr.Store("cadastrar resposta", err)
		}
		if _, err := link.ExecContext(ctx, questionID, answerID, i == d.CorrectIndex); err != nil {
			return 0, apperr.Store("cadastrar resposta", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, apperr.Store("cadastrar pergunta", err)
	}
	return questionID, nil
}
