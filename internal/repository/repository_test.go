package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/avitale/badgeboard/internal/database"
	"github.com/avitale/badgeboard/internal/model"
	"github.com/avitale/badgeboard/internal/utils"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Bootstrap(context.Background(), db, "ADMIN001", "admin@empire.local", "adminpass", bcrypt.MinCost))
	return db
}

func createUser(t *testing.T, users *UserRepo, email, code string) int64 {
	t.Helper()
	id, err := users.Create(context.Background(), "Mario", "Rossi", email, "pw", model.RoleUser, code, bcrypt.MinCost)
	require.NoError(t, err)
	return id
}

func TestUserCreateAndLookup(t *testing.T) {
	users := NewUserRepo(newTestDB(t))
	ctx := context.Background()

	id := createUser(t, users, "Mario.Rossi@Empire.IT", "USR100")

	// Email is normalized at insert, so both spellings resolve.
	byEmail, err := users.GetByIdentifier(ctx, "mario.rossi@empire.it")
	require.NoError(t, err)
	require.Equal(t, id, byEmail.ID)

	byCode, err := users.GetByIdentifier(ctx, "USR100")
	require.NoError(t, err)
	require.Equal(t, id, byCode.ID)
	require.True(t, utils.VerifyPassword(byCode.PasswordHash, "pw"))

	_, err = users.GetByIdentifier(ctx, "nobody@empire.it")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	users := NewUserRepo(newTestDB(t))

	createUser(t, users, "dup@empire.it", "USR101")
	_, err := users.Create(context.Background(), "Luca", "Bianchi", "dup@empire.it", "pw", model.RoleUser, "USR102", bcrypt.MinCost)
	require.ErrorIs(t, err, ErrEmailExists)
}

func TestUserCreateDuplicateCode(t *testing.T) {
	users := NewUserRepo(newTestDB(t))

	createUser(t, users, "one@empire.it", "USR200")
	// Distinct email, colliding generated code: the code index must be
	// blamed, not the email.
	_, err := users.Create(context.Background(), "Luca", "Bianchi", "two@empire.it", "pw", model.RoleUser, "USR200", bcrypt.MinCost)
	require.ErrorIs(t, err, ErrCodeExists)
}

func TestBootstrapSeedsAdminOnce(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepo(db)
	ctx := context.Background()

	admin, err := users.GetByIdentifier(ctx, "ADMIN001")
	require.NoError(t, err)
	require.Equal(t, model.RoleAdmin, admin.Role)
	require.True(t, utils.VerifyPassword(admin.PasswordHash, "adminpass"))

	// A second bootstrap must not duplicate or overwrite the admin row.
	require.NoError(t, database.Bootstrap(ctx, db, "ADMIN001", "admin@empire.local", "otherpass", bcrypt.MinCost))
	again, err := users.GetByIdentifier(ctx, "ADMIN001")
	require.NoError(t, err)
	require.Equal(t, admin.ID, again.ID)
	require.True(t, utils.VerifyPassword(again.PasswordHash, "adminpass"))
}

func TestWorkLogAddAndListNewestFirst(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepo(db)
	logs := NewWorkLogRepo(db)
	ctx := context.Background()

	uid := createUser(t, users, "alice@empire.it", "USR103")

	// Pin two older dates by hand so the ordering is unambiguous.
	_, err := db.ExecContext(ctx, "INSERT INTO work_logs (user_id, date, hours, reason) VALUES (?,?,?,?)",
		uid, "2025-01-01 09:00:00", 2.0, "setup")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "INSERT INTO work_logs (user_id, date, hours, reason) VALUES (?,?,?,?)",
		uid, "2025-01-02 09:00:00", 3.5, "riprese")
	require.NoError(t, err)

	id, err := logs.Add(ctx, uid, 1.5, "montaggio")
	require.NoError(t, err)
	require.Positive(t, id)

	got, err := logs.ListByUser(ctx, uid)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, "montaggio", got[0].Reason)
	require.Equal(t, "2025-01-02 09:00:00", got[1].Date)
	require.Equal(t, "2025-01-01 09:00:00", got[2].Date)

	other, err := logs.ListByUser(ctx, 9999)
	require.NoError(t, err)
	require.Empty(t, other)
}

func TestRemovalDecideAcceptedDeletesLog(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepo(db)
	logs := NewWorkLogRepo(db)
	removals := NewRemovalRepo(db)
	ctx := context.Background()

	uid := createUser(t, users, "bob@empire.it", "USR104")
	keepID, err := logs.Add(ctx, uid, 4, "tenere")
	require.NoError(t, err)
	dropID, err := logs.Add(ctx, uid, 2.5, "da togliere")
	require.NoError(t, err)

	reqID, err := removals.Create(ctx, dropID, uid, "ore sbagliate")
	require.NoError(t, err)

	pending, err := removals.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, reqID, pending[0].ID)
	require.Equal(t, dropID, pending[0].WorkLogID)
	require.Equal(t, 2.5, pending[0].Hours)

	require.NoError(t, removals.Decide(ctx, reqID, model.RemovalAccepted, 1, "ok"))

	// Exactly the targeted log is gone.
	remaining, err := logs.ListByUser(ctx, uid)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.Equal(t, keepID, remaining[0].ID)

	// The transition is one-way.
	err = removals.Decide(ctx, reqID, model.RemovalRejected, 1, "ripensamento")
	require.ErrorIs(t, err, ErrAlreadyDecided)

	pending, err = removals.ListPending(ctx)
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestRemovalDecideRejectedKeepsLog(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepo(db)
	logs := NewWorkLogRepo(db)
	removals := NewRemovalRepo(db)
	ctx := context.Background()

	uid := createUser(t, users, "carla@empire.it", "USR105")
	logID, err := logs.Add(ctx, uid, 6, "turno lungo")
	require.NoError(t, err)

	reqID, err := removals.Create(ctx, logID, uid, "errore")
	require.NoError(t, err)
	require.NoError(t, removals.Decide(ctx, reqID, model.RemovalRejected, 1, "le ore restano"))

	got, err := logs.ListByUser(ctx, uid)
	require.NoError(t, err)
	require.Len(t, got, 1)

	require.ErrorIs(t, removals.Decide(ctx, 424242, model.RemovalAccepted, 1, ""), ErrNotFound)
}

func TestUsersHoursTotals(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepo(db)
	logs := NewWorkLogRepo(db)
	ctx := context.Background()

	a := createUser(t, users, "a@empire.it", "USR106")
	b := createUser(t, users, "b@empire.it", "USR107")

	_, err := logs.Add(ctx, a, 2, "")
	require.NoError(t, err)
	_, err = logs.Add(ctx, a, 3.5, "")
	require.NoError(t, err)

	totals, err := users.ListWithTotalHours(ctx)
	require.NoError(t, err)

	byID := map[int64]float64{}
	for _, t2 := range totals {
		byID[t2.ID] = t2.TotalHours
	}
	require.Equal(t, 5.5, byID[a])
	require.Equal(t, 0.0, byID[b]) // no logs still shows up with zero
}

func TestProfileUpsertAndGet(t *testing.T) {
	db := newTestDB(t)
	profiles := NewProfileRepo(db)
	ctx := context.Background()

	_, err := profiles.Get(ctx, 7)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, profiles.Upsert(ctx, model.UserProfile{UserID: 7, Nickname: "Il Regista", ImagePath: "profiles/avatar_7_1.png"}))
	p, err := profiles.Get(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, "Il Regista", p.Nickname)

	// Wholesale replace: an empty image clears the stored path.
	require.NoError(t, profiles.Upsert(ctx, model.UserProfile{UserID: 7, Nickname: "Regista"}))
	p, err = profiles.Get(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, "Regista", p.Nickname)
	require.Empty(t, p.ImagePath)
}

func TestCharacterLifecycle(t *testing.T) {
	db := newTestDB(t)
	chars := NewCharacterRepo(db)
	ctx := context.Background()

	last, err := chars.LastUpdate(ctx)
	require.NoError(t, err)
	require.Empty(t, last)

	id, err := chars.Create(ctx, model.Character{
		SeriesTitle:  model.SeriesAfterSchool,
		Name:         "Marco",
		Role:         "protagonista",
		ScriptText:   "Scena 1",
		LastModified: "2025-02-01 10:00:00",
	})
	require.NoError(t, err)
	id2, err := chars.Create(ctx, model.Character{
		SeriesTitle:  model.SeriesEmpireOffice,
		Name:         "Anna",
		Role:         "comparsa",
		LastModified: "2025-02-02 10:00:00",
	})
	require.NoError(t, err)

	list, err := chars.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	// Ordered by series then name: "After School" sorts first.
	require.Equal(t, "Marco", list[0].Name)
	require.Equal(t, "Anna", list[1].Name)

	last, err = chars.LastUpdate(ctx)
	require.NoError(t, err)
	require.Equal(t, "2025-02-02 10:00:00", last)

	role := "antagonista"
	require.NoError(t, chars.Patch(ctx, id, model.CharacterPatch{Role: &role}, "2025-02-03 10:00:00"))
	got, err := chars.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "antagonista", got.Role)
	require.Equal(t, "2025-02-03 10:00:00", got.LastModified)

	last, err = chars.LastUpdate(ctx)
	require.NoError(t, err)
	require.Equal(t, "2025-02-03 10:00:00", last)

	require.NoError(t, chars.SetImage(ctx, id2, "bacheca/Empire_Office/img_Anna_1.png", "2025-02-04 10:00:00"))
	got, err = chars.GetByID(ctx, id2)
	require.NoError(t, err)
	require.Equal(t, "bacheca/Empire_Office/img_Anna_1.png", got.ImagePath)

	require.NoError(t, chars.Delete(ctx, id))
	_, err = chars.GetByID(ctx, id)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, chars.Delete(ctx, id), ErrNotFound)
	require.ErrorIs(t, chars.Patch(ctx, id, model.CharacterPatch{Role: &role}, "2025-02-05 10:00:00"), ErrNotFound)
}
