package services

import (
	"database/sql"

	"github.com/lib/pq"

	"github.com/vjhub/vjhub-backend/internal/database"
	"github.com/vjhub/vjhub-backend/internal/models"
)

// GetUserByID loads an account from PostgreSQL. Returns (nil, nil) when the
// account does not exist.
func GetUserByID(userID string) (*models.User, error) {
	var u models.User
	err := database.PostgresDB.QueryRow(`
		SELECT id, created_at, updated_at, email, first_name, last_name, university, bio, avatar, role
		FROM users WHERE id = $1
	`, userID).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.Email, &u.FirstName, &u.LastName, &u.University, &u.Bio, &u.Avatar, &u.Role)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetAuthorRefs resolves a set of user IDs to public author slices in one
// query. Unknown IDs are simply absent from the result.
func GetAuthorRefs(userIDs []string) (map[string]models.AuthorRef, error) {
	refs := make(map[string]models.AuthorRef, len(userIDs))
	if len(userIDs) == 0 {
		return refs, nil
	}

	// De-duplicate before querying
	seen := make(map[string]bool, len(userIDs))
	unique := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		if id != "" && !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	rows, err := database.PostgresDB.Query(`
		SELECT id, first_name, last_name, avatar, university
		FROM users WHERE id = ANY($1::uuid[])
	`, pq.Array(unique))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ref models.AuthorRef
		if err := rows.Scan(&ref.ID, &ref.FirstName, &ref.LastName, &ref.Avatar, &ref.University); err != nil {
			return nil, err
		}
		refs[ref.ID] = ref
	}
	return refs, rows.Err()
}
