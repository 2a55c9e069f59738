package db

import "context"

func (s *DB) DeleteUser(ctx context.Context, id int64) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "DeleteUser")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() == 1, nil
}
