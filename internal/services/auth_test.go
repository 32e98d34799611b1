package services

import (
	"net/http"
	"testing"

	"github.com/apetrila/bugtrail/internal/config"
	"github.com/apetrila/bugtrail/internal/models"
	"github.com/apetrila/bugtrail/internal/utils"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	utils.SetJWTSecret("test-secret")
	svc := NewAuthService(db, &config.JWTConfig{Secret: "test-secret", ExpireHour: 1})
	return svc, db
}

func TestAuthService_Register(t *testing.T) {
	svc, db := newAuthService(t)

	t.Run("registers a tester by default", func(t *testing.T) {
		resp, err := svc.Register(&RegisterRequest{Email: "new@test.com", Password: "secret1"})
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if resp.User.Role != models.RoleTester {
			t.Errorf("Role = %q, expected TST", resp.User.Role)
		}
		if resp.Token == "" {
			t.Error("expected a token")
		}

		claims, err := utils.ParseToken(resp.Token)
		if err != nil {
			t.Fatalf("ParseToken failed: %v", err)
		}
		if claims.UserID != resp.User.ID || claims.Role != string(models.RoleTester) {
			t.Errorf("claims = %+v, do not match registered user", claims)
		}
	})

	t.Run("registers a manager on request", func(t *testing.T) {
		resp, err := svc.Register(&RegisterRequest{Email: "mp@test.com", Password: "secret1", Role: "MP"})
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if resp.User.Role != models.RoleManager {
			t.Errorf("Role = %q, expected MP", resp.User.Role)
		}
	})

	t.Run("unknown role normalized to tester", func(t *testing.T) {
		resp, err := svc.Register(&RegisterRequest{Email: "odd@test.com", Password: "secret1", Role: "ADMIN"})
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if resp.User.Role != models.RoleTester {
			t.Errorf("Role = %q, expected TST", resp.User.Role)
		}
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		_, err := svc.Register(&RegisterRequest{Email: "new@test.com", Password: "secret1"})
		wantAppError(t, err, http.StatusBadRequest, http.StatusBadRequest)
	})

	t.Run("short password rejected", func(t *testing.T) {
		_, err := svc.Register(&RegisterRequest{Email: "short@test.com", Password: "12345"})
		wantAppError(t, err, http.StatusBadRequest, http.StatusBadRequest)
	})

	t.Run("stored password is hashed", func(t *testing.T) {
		var user models.User
		if err := db.Where("email = ?", "new@test.com").First(&user).Error; err != nil {
			t.Fatalf("lookup failed: %v", err)
		}
		if user.Password == "secret1" {
			t.Error("password stored in plain text")
		}
		if !utils.CheckPassword("secret1", user.Password) {
			t.Error("stored hash does not verify")
		}
	})
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := newAuthService(t)

	if _, err := svc.Register(&RegisterRequest{Email: "user@test.com", Password: "secret1"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := svc.Login(&LoginRequest{Email: "user@test.com", Password: "secret1"})
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if resp.Token == "" {
			t.Error("expected a token")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(&LoginRequest{Email: "user@test.com", Password: "wrong"})
		wantAppError(t, err, http.StatusUnauthorized, http.StatusUnauthorized)
	})

	t.Run("unknown email gets the same error", func(t *testing.T) {
		_, err := svc.Login(&LoginRequest{Email: "nobody@test.com", Password: "secret1"})
		wantAppError(t, err, http.StatusUnauthorized, http.StatusUnauthorized)
	})
}

func TestAuthService_ListManagers(t *testing.T) {
	svc, db := newAuthService(t)

	caller := createUser(t, db, "caller@test.com", models.RoleManager)
	createUser(t, db, "mp-a@test.com", models.RoleManager)
	createUser(t, db, "mp-b@test.com", models.RoleManager)
	createUser(t, db, "tst@test.com", models.RoleTester)

	managers, err := svc.ListManagers(caller.ID)
	if err != nil {
		t.Fatalf("ListManagers failed: %v", err)
	}
	if len(managers) != 2 {
		t.Fatalf("got %d managers, expected 2", len(managers))
	}
	for _, m := range managers {
		if m.ID == caller.ID {
			t.Error("caller included in manager list")
		}
		if m.Role != models.RoleManager {
			t.Errorf("non-manager %s in list", m.Email)
		}
	}
	if managers[0].Email != "mp-a@test.com" || managers[1].Email != "mp-b@test.com" {
		t.Errorf("managers not ordered by email: %s, %s", managers[0].Email, managers[1].Email)
	}
}

func TestAuthService_GetUserByID(t *testing.T) {
	svc, db := newAuthService(t)
	user := createUser(t, db, "lookup@test.com", models.RoleTester)

	got, err := svc.GetUserByID(user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if got.Email != user.Email {
		t.Errorf("Email = %q, expected %q", got.Email, user.Email)
	}

	_, err = svc.GetUserByID(9999)
	wantAppError(t, err, http.StatusNotFound, http.StatusNotFound)
}
