package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// JoinType represents the type of SQL JOIN operation
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftJoin
)

// String returns the SQL representation of the join type
func (jt JoinType) String() string {
	switch jt {
	case LeftJoin:
		return "LEFT JOIN"
	default:
		return "INNER JOIN"
	}
}

// QueryBuilder provides a fluent, type-safe API for building database queries
type QueryBuilder[T any] struct {
	db *DB
	tx bun.IDB

	// Query clauses
	columnExprs []string
	joins       []*JoinClause
	wheres      []*WhereClause
	whereGroups []*WhereGroup
	orders      []*OrderClause
	limitVal    *int
	offsetVal   *int

	// Timeout
	timeout time.Duration
}

// JoinClause represents a SQL JOIN operation
type JoinClause struct {
	Type       JoinType
	Table      string
	Alias      string
	Conditions []*JoinCondition
}

// JoinCondition represents a condition in a JOIN clause
type JoinCondition struct {
	Left     string
	Operator string
	Right    string
}

// WhereClause represents a WHERE condition
type WhereClause struct {
	Column   string
	Operator string
	Value    any
	IsRaw    bool
	RawSQL   string
	RawArgs  []any
	Negate   bool // For NOT conditions
}

// WhereGroup represents a grouped WHERE condition (for OR/AND grouping)
type WhereGroup struct {
	Conditions []*WhereClause
	Connector  string // "AND" or "OR"
	Negate     bool
}

// OrderClause represents an ORDER BY clause
type OrderClause struct {
	Column    string
	Direction string // "ASC" or "DESC"
}

// OrderDirection represents sort direction
type OrderDirection string

const (
	ASC  OrderDirection = "ASC"
	DESC OrderDirection = "DESC"
)

// JoinBuilder provides a fluent API for building JOIN clauses
type JoinBuilder[T any] struct {
	parent *QueryBuilder[T]
	clause *JoinClause
}

// WhereGroupBuilder provides a fluent API for building grouped WHERE clauses
type WhereGroupBuilder[T any] struct {
	parent *QueryBuilder[T]
	group  *WhereGroup
}

// Query creates a new QueryBuilder instance
func Query[T any](db *DB) *QueryBuilder[T] {
	return &QueryBuilder[T]{
		db:      db,
		timeout: db.queryTimeout,
	}
}

// Tx runs the query inside tx. Queries bound to a transaction are never retried.
func (q *QueryBuilder[T]) Tx(tx bun.IDB) *QueryBuilder[T] {
	q.tx = tx
	return q
}

func (q *QueryBuilder[T]) idb() bun.IDB {
	if q.tx != nil {
		return q.tx
	}
	return q.db.DB
}

// ColumnExpr adds a select expression, e.g. "mi.*" or "c.name AS category_name".
func (q *QueryBuilder[T]) ColumnExpr(exprs ...string) *QueryBuilder[T] {
	q.columnExprs = append(q.columnExprs, exprs...)
	return q
}

// Join starts building an INNER JOIN clause
func (q *QueryBuilder[T]) Join(table, alias string) *JoinBuilder[T] {
	return &JoinBuilder[T]{
		parent: q,
		clause: &JoinClause{Type: InnerJoin, Table: table, Alias: alias},
	}
}

// LeftJoin starts building a LEFT JOIN clause
func (q *QueryBuilder[T]) LeftJoin(table, alias string) *JoinBuilder[T] {
	return &JoinBuilder[T]{
		parent: q,
		clause: &JoinClause{Type: LeftJoin, Table: table, Alias: alias},
	}
}

// Where adds a simple WHERE condition (column = value)
func (q *QueryBuilder[T]) Where(column string, value any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{
		Column:   column,
		Operator: "=",
		Value:    value,
	})
	return q
}

// WhereOp adds a WHERE condition with a custom operator
func (q *QueryBuilder[T]) WhereOp(column, operator string, value any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{
		Column:   column,
		Operator: operator,
		Value:    value,
	})
	return q
}

// WhereNot adds a WHERE NOT condition
func (q *QueryBuilder[T]) WhereNot(column string, value any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{
		Column:   column,
		Operator: "=",
		Value:    value,
		Negate:   true,
	})
	return q
}

// WhereIn adds a WHERE IN condition
func (q *QueryBuilder[T]) WhereIn(column string, values any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{
		Column:   column,
		Operator: "IN",
		Value:    bun.In(values),
	})
	return q
}

// WhereNull adds a WHERE IS NULL condition
func (q *QueryBuilder[T]) WhereNull(column string) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{
		Column:   column,
		Operator: "IS NULL",
	})
	return q
}

// WhereILike adds a case-insensitive substring match.
func (q *QueryBuilder[T]) WhereILike(column, term string) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{
		Column:   column,
		Operator: "ILIKE",
		Value:    ContainsPattern(term),
	})
	return q
}

// WhereRaw adds a raw WHERE condition
func (q *QueryBuilder[T]) WhereRaw(sql string, args ...any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{
		IsRaw:   true,
		RawSQL:  sql,
		RawArgs: args,
	})
	return q
}

// WhereGroup starts building a grouped WHERE clause
func (q *QueryBuilder[T]) WhereGroup(connector string) *WhereGroupBuilder[T] {
	return &WhereGroupBuilder[T]{
		parent: q,
		group:  &WhereGroup{Connector: connector},
	}
}

// Or starts an OR group
func (q *QueryBuilder[T]) Or() *WhereGroupBuilder[T] {
	return q.WhereGroup("OR")
}

// OrderBy adds an ORDER BY clause
func (q *QueryBuilder[T]) OrderBy(column string, direction OrderDirection) *QueryBuilder[T] {
	q.orders = append(q.orders, &OrderClause{
		Column:    column,
		Direction: string(direction),
	})
	return q
}

// Limit sets the LIMIT clause
func (q *QueryBuilder[T]) Limit(limit int) *QueryBuilder[T] {
	q.limitVal = &limit
	return q
}

// Offset sets the OFFSET clause
func (q *QueryBuilder[T]) Offset(offset int) *QueryBuilder[T] {
	q.offsetVal = &offset
	return q
}

// Timeout sets a timeout for the query
func (q *QueryBuilder[T]) Timeout(duration time.Duration) *QueryBuilder[T] {
	q.timeout = duration
	return q
}

// JoinBuilder methods

// On adds a JOIN condition
func (j *JoinBuilder[T]) On(left, operator, right string) *JoinBuilder[T] {
	j.clause.Conditions = append(j.clause.Conditions, &JoinCondition{
		Left:     left,
		Operator: operator,
		Right:    right,
	})
	return j
}

// End completes the join builder and returns to the query builder
func (j *JoinBuilder[T]) End() *QueryBuilder[T] {
	j.parent.joins = append(j.parent.joins, j.clause)
	return j.parent
}

// WhereGroupBuilder methods

// Where adds a condition to the group
func (w *WhereGroupBuilder[T]) Where(column string, value any) *WhereGroupBuilder[T] {
	w.group.Conditions = append(w.group.Conditions, &WhereClause{
		Column:   column,
		Operator: "=",
		Value:    value,
	})
	return w
}

// WhereILike adds a case-insensitive substring match to the group
func (w *WhereGroupBuilder[T]) WhereILike(column, term string) *WhereGroupBuilder[T] {
	w.group.Conditions = append(w.group.Conditions, &WhereClause{
		Column:   column,
		Operator: "ILIKE",
		Value:    ContainsPattern(term),
	})
	return w
}

// WhereRaw adds a raw condition to the group
func (w *WhereGroupBuilder[T]) WhereRaw(sql string, args ...any) *WhereGroupBuilder[T] {
	w.group.Conditions = append(w.group.Conditions, &WhereClause{
		IsRaw:   true,
		RawSQL:  sql,
		RawArgs: args,
	})
	return w
}

// End completes the group builder and returns to the query builder
func (w *WhereGroupBuilder[T]) End() *QueryBuilder[T] {
	w.parent.whereGroups = append(w.parent.whereGroups, w.group)
	return w.parent
}

// ContainsPattern escapes LIKE wildcards in term and wraps it in %...%.
func ContainsPattern(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(term) + "%"
}

// Helper function to build JOIN SQL
func (j *JoinClause) toSQL() string {
	var sb strings.Builder

	sb.WriteString(j.Type.String())
	sb.WriteString(" ")
	sb.WriteString(j.Table)

	if j.Alias != "" {
		sb.WriteString(" AS ")
		sb.WriteString(j.Alias)
	}

	if len(j.Conditions) > 0 {
		sb.WriteString(" ON ")
		for i, cond := range j.Conditions {
			if i > 0 {
				sb.WriteString(" AND ")
			}
			sb.WriteString(cond.Left)
			sb.WriteString(" ")
			sb.WriteString(cond.Operator)
			sb.WriteString(" ")
			sb.WriteString(cond.Right)
		}
	}

	return sb.String()
}

// condition renders a single clause as SQL with ? placeholders.
func (w *WhereClause) condition() (string, []any) {
	if w.IsRaw {
		return w.RawSQL, w.RawArgs
	}

	switch w.Operator {
	case "IS NULL", "IS NOT NULL":
		return fmt.Sprintf("%s %s", w.Column, w.Operator), nil
	case "IN":
		if w.Negate {
			return fmt.Sprintf("%s NOT IN (?)", w.Column), []any{w.Value}
		}
		return fmt.Sprintf("%s IN (?)", w.Column), []any{w.Value}
	}

	if w.Negate {
		return fmt.Sprintf("NOT (%s %s ?)", w.Column, w.Operator), []any{w.Value}
	}
	return fmt.Sprintf("%s %s ?", w.Column, w.Operator), []any{w.Value}
}

// condition renders a group as one parenthesised condition.
func (g *WhereGroup) condition() (string, []any, bool) {
	if len(g.Conditions) == 0 {
		return "", nil, false
	}

	conditions := make([]string, 0, len(g.Conditions))
	var args []any
	for _, cond := range g.Conditions {
		sql, condArgs := cond.condition()
		conditions = append(conditions, sql)
		args = append(args, condArgs...)
	}

	groupSQL := "(" + strings.Join(conditions, " "+g.Connector+" ") + ")"
	if g.Negate {
		groupSQL = "NOT " + groupSQL
	}
	return groupSQL, args, true
}

// whereApplier is satisfied by bun's select, update and delete queries.
type whereApplier[Q any] interface {
	Where(query string, args ...any) Q
}

func applyWheres[Q whereApplier[Q]](query Q, wheres []*WhereClause, groups []*WhereGroup) Q {
	for _, where := range wheres {
		sql, args := where.condition()
		query = query.Where(sql, args...)
	}
	for _, group := range groups {
		if sql, args, ok := group.condition(); ok {
			query = query.Where(sql, args...)
		}
	}
	return query
}

// buildSelect assembles the select query for model (a *T or *[]T).
func (q *QueryBuilder[T]) buildSelect(model any) *bun.SelectQuery {
	query := q.idb().NewSelect().Model(model)

	for _, expr := range q.columnExprs {
		query = query.ColumnExpr(expr)
	}

	for _, join := range q.joins {
		query = query.Join(join.toSQL())
	}

	query = applyWheres(query, q.wheres, q.whereGroups)

	for _, order := range q.orders {
		query = query.OrderExpr(order.Column + " " + order.Direction)
	}

	if q.limitVal != nil {
		query = query.Limit(*q.limitVal)
	}
	if q.offsetVal != nil {
		query = query.Offset(*q.offsetVal)
	}

	return query
}

// String renders the select statement, for logging and tests.
func (q *QueryBuilder[T]) String() string {
	var rows []T
	return q.buildSelect(&rows).String()
}
