package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/gopher93185789/redshow/pkg/types"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(db.Close)
	return db
}

func newTestAccount(t *testing.T, db *DB, username string, role types.Role) *types.Account {
	t.Helper()
	a := &types.Account{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: []byte("hash"),
		FirstName:    "Ana",
		LastName:     "Gómez",
		Role:         role,
		Active:       true,
	}
	if err := db.CreateAccount(t.Context(), a); err != nil {
		t.Fatal(err)
	}
	return a
}

func TestAccounts(t *testing.T) {
	db := newTestDB(t)
	ctx := t.Context()
	a := newTestAccount(t, db, "ana", types.RoleArtist)

	t.Run("lookup", func(t *testing.T) {
		byID, err := db.AccountByID(ctx, a.ID)
		if err != nil {
			t.Fatal(err)
		}
		if byID.Username != "ana" || byID.Role != types.RoleArtist || !byID.Active {
			t.Errorf("unexpected account: %+v", byID)
		}
		if byID.BirthDate != nil {
			t.Errorf("birth date = %v, want nil", byID.BirthDate)
		}

		if _, err := db.AccountByUsername(ctx, "ana"); err != nil {
			t.Error(err)
		}
		if _, err := db.AccountByLogin(ctx, "ANA@example.com"); err != nil {
			t.Errorf("login by email: %v", err)
		}
	})

	t.Run("missing", func(t *testing.T) {
		if _, err := db.AccountByUsername(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("duplicate username", func(t *testing.T) {
		dup := &types.Account{Username: "ana", Email: "other@example.com", PasswordHash: []byte("x"), Role: types.RoleOwner, Active: true}
		if err := db.CreateAccount(ctx, dup); !errors.Is(err, ErrDuplicate) {
			t.Errorf("err = %v, want ErrDuplicate", err)
		}
	})

	t.Run("duplicate email in another case", func(t *testing.T) {
		dup := &types.Account{Username: "ana2", Email: "ANA@Example.com", PasswordHash: []byte("x"), Role: types.RoleOwner, Active: true}
		if err := db.CreateAccount(ctx, dup); !errors.Is(err, ErrDuplicate) {
			t.Errorf("err = %v, want ErrDuplicate", err)
		}
	})

	t.Run("update", func(t *testing.T) {
		a.Phone = "+54 11 5555-5555"
		a.DNI = "30123456"
		if err := db.UpdateAccount(ctx, a); err != nil {
			t.Fatal(err)
		}
		got, err := db.AccountByID(ctx, a.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.Phone != a.Phone || got.DNI != a.DNI {
			t.Errorf("update not persisted: %+v", got)
		}

		ghost := &types.Account{ID: uuid.New()}
		if err := db.UpdateAccount(ctx, ghost); !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestAccountByLoginPrefersUsername(t *testing.T) {
	db := newTestDB(t)
	ctx := t.Context()

	squatter := newTestAccount(t, db, "victim@example.com", types.RoleArtist)
	squatter.Email = "squatter@example.com"
	if err := db.UpdateAccount(ctx, squatter); err != nil {
		t.Fatal(err)
	}
	victim := newTestAccount(t, db, "victim", types.RoleOwner)

	got, err := db.AccountByLogin(ctx, "victim@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != squatter.ID {
		t.Errorf("exact username match lost to an email match")
	}

	got, err = db.AccountByLogin(ctx, "VICTIM@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != victim.ID {
		t.Errorf("email fallback resolved to %s", got.Username)
	}

	if _, err := db.AccountByLogin(ctx, "nadie"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestOwnerProfile(t *testing.T) {
	db := newTestDB(t)
	ctx := t.Context()
	a := newTestAccount(t, db, "bar", types.RoleOwner)

	p := &types.OwnerProfile{
		AccountID:          a.ID,
		BusinessName:       "Bar Sur",
		Capacity:           120,
		Schedule:           types.WeeklySchedule{"Viernes": {From: "20:00", To: "03:00"}},
		AdditionalServices: []string{"sonido", "luces"},
	}
	if err := db.CreateOwnerProfile(ctx, p); err != nil {
		t.Fatal(err)
	}

	if err := db.CreateOwnerProfile(ctx, &types.OwnerProfile{AccountID: a.ID}); !errors.Is(err, ErrDuplicate) {
		t.Errorf("second profile: err = %v, want ErrDuplicate", err)
	}

	got, err := db.OwnerProfile(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.BusinessName != "Bar Sur" || got.Capacity != 120 {
		t.Errorf("unexpected profile: %+v", got)
	}
	if got.Schedule["Viernes"].To != "03:00" {
		t.Errorf("schedule = %v", got.Schedule)
	}
	if len(got.AdditionalServices) != 2 || got.AdditionalServices[1] != "luces" {
		t.Errorf("services = %v", got.AdditionalServices)
	}

	got.Schedule = nil
	got.AdditionalServices = nil
	if err := db.UpdateOwnerProfile(ctx, got); err != nil {
		t.Fatal(err)
	}
	again, err := db.OwnerProfile(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if again.Schedule == nil || len(again.Schedule) != 0 {
		t.Errorf("schedule = %#v, want empty non-nil", again.Schedule)
	}
}

func TestArtistProfile(t *testing.T) {
	db := newTestDB(t)
	ctx := t.Context()
	a := newTestAccount(t, db, "lola", types.RoleArtist)

	if _, err := db.ArtistProfile(ctx, a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	p := &types.ArtistProfile{
		AccountID:       a.ID,
		StageName:       "Lola Rock",
		Category:        types.CategoryMusician,
		ExperienceYears: 4,
		Instagram:       "@lola",
		Availability:    types.WeeklySchedule{"Sábado": {From: "21:00", To: "23:30"}},
	}
	if err := db.CreateArtistProfile(ctx, p); err != nil {
		t.Fatal(err)
	}

	p.Bio = "Rock nacional"
	if err := db.UpdateArtistProfile(ctx, p); err != nil {
		t.Fatal(err)
	}

	got, err := db.ArtistProfile(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Bio != "Rock nacional" || got.Category != types.CategoryMusician || got.Instagram != "@lola" {
		t.Errorf("unexpected profile: %+v", got)
	}
	if got.Availability["Sábado"].From != "21:00" {
		t.Errorf("availability = %v", got.Availability)
	}
}

func TestMedia(t *testing.T) {
	db := newTestDB(t)
	ctx := t.Context()
	owner := newTestAccount(t, db, "lola", types.RoleArtist)
	other := newTestAccount(t, db, "pepe", types.RoleArtist)

	m := &types.MediaAttachment{AccountID: owner.ID, File: "profile_media/a.jpg", MediaType: types.MediaImage, ContentType: "image/jpeg"}
	if err := db.AddMedia(ctx, m); err != nil {
		t.Fatal(err)
	}

	list, err := db.ListMedia(ctx, other.ID)
	if err != nil {
		t.Fatal(err)
	}
	if list == nil || len(list) != 0 {
		t.Errorf("other account media = %#v, want empty", list)
	}

	t.Run("foreign account cannot delete", func(t *testing.T) {
		called := false
		err := db.DeleteMedia(ctx, other.ID, m.ID, func(types.MediaAttachment) error {
			called = true
			return nil
		})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
		if called {
			t.Error("remove called for foreign media")
		}
	})

	t.Run("remove failure keeps the row", func(t *testing.T) {
		boom := errors.New("boom")
		err := db.DeleteMedia(ctx, owner.ID, m.ID, func(types.MediaAttachment) error { return boom })
		if !errors.Is(err, boom) {
			t.Fatalf("err = %v, want boom", err)
		}

		list, err := db.ListMedia(ctx, owner.ID)
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 1 {
			t.Errorf("len = %d, want 1 after rollback", len(list))
		}
	})

	t.Run("delete", func(t *testing.T) {
		var removed types.MediaAttachment
		err := db.DeleteMedia(ctx, owner.ID, m.ID, func(a types.MediaAttachment) error {
			removed = a
			return nil
		})
		if err != nil {
			t.Fatal(err)
		}
		if removed.File != m.File {
			t.Errorf("removed file = %q, want %q", removed.File, m.File)
		}

		list, err := db.ListMedia(ctx, owner.ID)
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 0 {
			t.Errorf("len = %d, want 0", len(list))
		}
	})
}

func TestRebind(t *testing.T) {
	got := rebind("SELECT a FROM t WHERE x = ? AND y = ?")
	if want := "SELECT a FROM t WHERE x = $1 AND y = $2"; got != want {
		t.Errorf("rebind() = %q, want %q", got, want)
	}
}
