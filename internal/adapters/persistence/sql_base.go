package persistence

import (
	"database/sql"
	"strconv"
	"strings"
)

// sqlBase é compartilhado pelos repositórios SQL. As queries são escritas com
// "?" e reescritas para "$n" quando o driver é Postgres.
type sqlBase struct {
	db       *sql.DB
	postgres bool
}

func newSQLBase(db *sql.DB, driver string) sqlBase {
	return sqlBase{db: db, postgres: driver == "pgx"}
}

func (b sqlBase) q(query string) string {
	if !b.postgres {
		return query
	}
	return rebind(query)
}

// rebind troca os placeholders "?" por "$1", "$2"... fora de literais.
func rebind(query string) string {
	var sb strings.Builder
	sb.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
			sb.WriteRune(r)
		case r == '?' && !inQuote:
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
