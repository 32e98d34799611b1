package services

import (
	"net/http"
	"testing"

	"github.com/apetrila/bugtrail/internal/models"
)

func TestBugService_Create(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBugService(db)

	creator := createUser(t, db, "mp@test.com", models.RoleManager)
	tester := createUser(t, db, "tst@test.com", models.RoleTester)
	outsider := createUser(t, db, "other-tst@test.com", models.RoleTester)
	project := createProject(t, db, "Tracker", creator)
	addTesterRow(t, db, project, tester)

	t.Run("tester files a bug", func(t *testing.T) {
		bug, err := svc.Create(asCaller(tester), &CreateBugRequest{
			Description: "Crash on login",
			Severity:    "High",
			Priority:    "Urgent",
			CommitLink:  "https://github.com/acme/tracker/commit/abc123",
			ProjectID:   project.ID,
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if bug.Status != models.StatusOpen {
			t.Errorf("new bug status = %q, expected %q", bug.Status, models.StatusOpen)
		}
		if bug.TesterID != tester.ID {
			t.Errorf("TesterID = %d, expected %d", bug.TesterID, tester.ID)
		}
		if bug.AssignedTo != nil {
			t.Error("new bug should be unassigned")
		}
		if bug.CommitLink == nil || *bug.CommitLink != "https://github.com/acme/tracker/commit/abc123" {
			t.Errorf("CommitLink = %v, expected the submitted URL", bug.CommitLink)
		}
	})

	t.Run("omitted commit link stored as NULL", func(t *testing.T) {
		bug, err := svc.Create(asCaller(tester), &CreateBugRequest{
			Description: "Typo in footer",
			Severity:    "Low",
			Priority:    "Low",
			ProjectID:   project.ID,
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if bug.CommitLink != nil {
			t.Errorf("CommitLink = %v, expected nil", bug.CommitLink)
		}
	})

	t.Run("non-registered tester rejected", func(t *testing.T) {
		_, err := svc.Create(asCaller(outsider), &CreateBugRequest{
			Description: "Sneaky report",
			Severity:    "Low",
			Priority:    "Low",
			ProjectID:   project.ID,
		})
		wantAppError(t, err, http.StatusForbidden, http.StatusForbidden)
	})

	t.Run("manager rejected", func(t *testing.T) {
		_, err := svc.Create(asCaller(creator), &CreateBugRequest{
			Description: "Managers cannot report",
			Severity:    "Low",
			Priority:    "Low",
			ProjectID:   project.ID,
		})
		wantAppError(t, err, http.StatusForbidden, http.StatusForbidden)
	})

	t.Run("invalid severity rejected", func(t *testing.T) {
		_, err := svc.Create(asCaller(tester), &CreateBugRequest{
			Description: "Bad enum",
			Severity:    "Catastrophic",
			Priority:    "Low",
			ProjectID:   project.ID,
		})
		wantAppError(t, err, http.StatusBadRequest, http.StatusBadRequest)
	})

	t.Run("invalid priority rejected", func(t *testing.T) {
		_, err := svc.Create(asCaller(tester), &CreateBugRequest{
			Description: "Bad enum",
			Severity:    "Low",
			Priority:    "Whenever",
			ProjectID:   project.ID,
		})
		wantAppError(t, err, http.StatusBadRequest, http.StatusBadRequest)
	})

	t.Run("invalid commit link rejected", func(t *testing.T) {
		_, err := svc.Create(asCaller(tester), &CreateBugRequest{
			Description: "Bad link",
			Severity:    "Low",
			Priority:    "Low",
			CommitLink:  "not a url",
			ProjectID:   project.ID,
		})
		wantAppError(t, err, http.StatusBadRequest, http.StatusBadRequest)
	})

	t.Run("unknown project is 404", func(t *testing.T) {
		_, err := svc.Create(asCaller(tester), &CreateBugRequest{
			Description: "Ghost project",
			Severity:    "Low",
			Priority:    "Low",
			ProjectID:   9999,
		})
		wantAppError(t, err, http.StatusNotFound, http.StatusNotFound)
	})
}

func TestBugService_Assign(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBugService(db)

	creator := createUser(t, db, "creator@test.com", models.RoleManager)
	member := createUser(t, db, "member@test.com", models.RoleManager)
	tester := createUser(t, db, "tester@test.com", models.RoleTester)
	project := createProject(t, db, "Assignments", creator)
	addMemberRow(t, db, project, member)
	addTesterRow(t, db, project, tester)

	bug, err := svc.Create(asCaller(tester), &CreateBugRequest{
		Description: "Needs an owner",
		Severity:    "Medium",
		Priority:    "High",
		ProjectID:   project.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("member cannot assign", func(t *testing.T) {
		_, err := svc.Assign(asCaller(member), bug.ID)
		wantAppError(t, err, http.StatusForbidden, http.StatusForbidden)
	})

	t.Run("creator claims the bug", func(t *testing.T) {
		assigned, err := svc.Assign(asCaller(creator), bug.ID)
		if err != nil {
			t.Fatalf("Assign failed: %v", err)
		}
		if assigned.AssignedTo == nil || *assigned.AssignedTo != creator.ID {
			t.Errorf("AssignedTo = %v, expected %d", assigned.AssignedTo, creator.ID)
		}
		if assigned.Status != models.StatusOpen {
			t.Errorf("assignment changed status to %q", assigned.Status)
		}
	})

	t.Run("second assign conflicts", func(t *testing.T) {
		_, err := svc.Assign(asCaller(creator), bug.ID)
		wantAppError(t, err, http.StatusBadRequest, 409)
	})

	t.Run("unknown bug is 404", func(t *testing.T) {
		_, err := svc.Assign(asCaller(creator), 9999)
		wantAppError(t, err, http.StatusNotFound, http.StatusNotFound)
	})
}

func TestBugService_UpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBugService(db)

	creator := createUser(t, db, "creator@test.com", models.RoleManager)
	member := createUser(t, db, "member@test.com", models.RoleManager)
	tester := createUser(t, db, "tester@test.com", models.RoleTester)
	project := createProject(t, db, "Lifecycle", creator)
	addMemberRow(t, db, project, member)
	addTesterRow(t, db, project, tester)

	bug, err := svc.Create(asCaller(tester), &CreateBugRequest{
		Description: "Stuck spinner",
		Severity:    "High",
		Priority:    "High",
		ProjectID:   project.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("unassigned bug cannot be updated", func(t *testing.T) {
		_, err := svc.UpdateStatus(asCaller(creator), bug.ID, &UpdateBugStatusRequest{Status: "Fixed"})
		wantAppError(t, err, http.StatusForbidden, http.StatusForbidden)
	})

	if _, err := svc.Assign(asCaller(creator), bug.ID); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	t.Run("non-assignee cannot update", func(t *testing.T) {
		_, err := svc.UpdateStatus(asCaller(member), bug.ID, &UpdateBugStatusRequest{Status: "Fixed"})
		wantAppError(t, err, http.StatusForbidden, http.StatusForbidden)
	})

	t.Run("assignee sets status and commit link", func(t *testing.T) {
		updated, err := svc.UpdateStatus(asCaller(creator), bug.ID, &UpdateBugStatusRequest{
			Status:     "Fixed",
			CommitLink: "https://github.com/acme/tracker/commit/fix1",
		})
		if err != nil {
			t.Fatalf("UpdateStatus failed: %v", err)
		}
		if updated.Status != models.StatusFixed {
			t.Errorf("Status = %q, expected Fixed", updated.Status)
		}
		if updated.CommitLink == nil || *updated.CommitLink != "https://github.com/acme/tracker/commit/fix1" {
			t.Errorf("CommitLink = %v, expected the submitted URL", updated.CommitLink)
		}
	})

	t.Run("omitting commit link clears it", func(t *testing.T) {
		updated, err := svc.UpdateStatus(asCaller(creator), bug.ID, &UpdateBugStatusRequest{Status: "In Progress"})
		if err != nil {
			t.Fatalf("UpdateStatus failed: %v", err)
		}
		if updated.CommitLink != nil {
			t.Errorf("CommitLink = %v, expected cleared", updated.CommitLink)
		}

		var reloaded models.Bug
		if err := db.First(&reloaded, bug.ID).Error; err != nil {
			t.Fatalf("reload failed: %v", err)
		}
		if reloaded.CommitLink != nil {
			t.Errorf("stored CommitLink = %v, expected NULL", reloaded.CommitLink)
		}
	})

	t.Run("closed bug can be reopened", func(t *testing.T) {
		if _, err := svc.UpdateStatus(asCaller(creator), bug.ID, &UpdateBugStatusRequest{Status: "Closed"}); err != nil {
			t.Fatalf("UpdateStatus failed: %v", err)
		}
		updated, err := svc.UpdateStatus(asCaller(creator), bug.ID, &UpdateBugStatusRequest{Status: "Open"})
		if err != nil {
			t.Fatalf("reopen failed: %v", err)
		}
		if updated.Status != models.StatusOpen {
			t.Errorf("Status = %q, expected Open", updated.Status)
		}
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		_, err := svc.UpdateStatus(asCaller(creator), bug.ID, &UpdateBugStatusRequest{Status: "Done"})
		wantAppError(t, err, http.StatusBadRequest, http.StatusBadRequest)
	})

	t.Run("invalid commit link rejected", func(t *testing.T) {
		_, err := svc.UpdateStatus(asCaller(creator), bug.ID, &UpdateBugStatusRequest{
			Status:     "Fixed",
			CommitLink: "::::",
		})
		wantAppError(t, err, http.StatusBadRequest, http.StatusBadRequest)
	})
}

func TestBugService_ListForProject(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBugService(db)
	members := NewMembershipService(db)

	creator := createUser(t, db, "creator@test.com", models.RoleManager)
	member := createUser(t, db, "member@test.com", models.RoleManager)
	stranger := createUser(t, db, "stranger@test.com", models.RoleManager)
	tester := createUser(t, db, "tester@test.com", models.RoleTester)
	project := createProject(t, db, "Visibility", creator)
	addMemberRow(t, db, project, member)
	addTesterRow(t, db, project, tester)

	if _, err := svc.Create(asCaller(tester), &CreateBugRequest{
		Description: "First bug",
		Severity:    "Low",
		Priority:    "Low",
		ProjectID:   project.ID,
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("creator sees bugs", func(t *testing.T) {
		bugs, err := svc.ListForProject(asCaller(creator), project.ID)
		if err != nil {
			t.Fatalf("ListForProject failed: %v", err)
		}
		if len(bugs) != 1 {
			t.Errorf("got %d bugs, expected 1", len(bugs))
		}
	})

	t.Run("member sees bugs", func(t *testing.T) {
		if _, err := svc.ListForProject(asCaller(member), project.ID); err != nil {
			t.Fatalf("ListForProject failed for member: %v", err)
		}
	})

	t.Run("unrelated manager denied", func(t *testing.T) {
		_, err := svc.ListForProject(asCaller(stranger), project.ID)
		wantAppError(t, err, http.StatusForbidden, http.StatusForbidden)
	})

	t.Run("tester denied", func(t *testing.T) {
		_, err := svc.ListForProject(asCaller(tester), project.ID)
		wantAppError(t, err, http.StatusForbidden, http.StatusForbidden)
	})

	t.Run("removed member loses access", func(t *testing.T) {
		if err := members.RemoveMember(asCaller(creator), project.ID, member.ID); err != nil {
			t.Fatalf("RemoveMember failed: %v", err)
		}
		_, err := svc.ListForProject(asCaller(member), project.ID)
		wantAppError(t, err, http.StatusForbidden, http.StatusForbidden)
	})
}

func TestBugService_ListOwn(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBugService(db)

	creator := createUser(t, db, "creator@test.com", models.RoleManager)
	tester := createUser(t, db, "tester@test.com", models.RoleTester)
	other := createUser(t, db, "other@test.com", models.RoleTester)
	project := createProject(t, db, "Reports", creator)
	addTesterRow(t, db, project, tester)
	addTesterRow(t, db, project, other)

	for _, desc := range []string{"one", "two"} {
		if _, err := svc.Create(asCaller(tester), &CreateBugRequest{
			Description: desc,
			Severity:    "Low",
			Priority:    "Low",
			ProjectID:   project.ID,
		}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	if _, err := svc.Create(asCaller(other), &CreateBugRequest{
		Description: "someone else's",
		Severity:    "Low",
		Priority:    "Low",
		ProjectID:   project.ID,
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	bugs, err := svc.ListOwn(asCaller(tester))
	if err != nil {
		t.Fatalf("ListOwn failed: %v", err)
	}
	if len(bugs) != 2 {
		t.Errorf("got %d bugs, expected 2", len(bugs))
	}
	for _, bug := range bugs {
		if bug.TesterID != tester.ID {
			t.Errorf("bug %d reported by %d, expected %d", bug.ID, bug.TesterID, tester.ID)
		}
	}

	t.Run("manager denied", func(t *testing.T) {
		_, err := svc.ListOwn(asCaller(creator))
		wantAppError(t, err, http.StatusForbidden, http.StatusForbidden)
	})
}

func TestBugService_Delete(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBugService(db)

	creator := createUser(t, db, "creator@test.com", models.RoleManager)
	member := createUser(t, db, "member@test.com", models.RoleManager)
	stranger := createUser(t, db, "stranger@test.com", models.RoleManager)
	tester := createUser(t, db, "tester@test.com", models.RoleTester)
	otherTester := createUser(t, db, "other-tester@test.com", models.RoleTester)
	project := createProject(t, db, "Cleanup", creator)
	addMemberRow(t, db, project, member)
	addTesterRow(t, db, project, tester)
	addTesterRow(t, db, project, otherTester)

	file := func(t *testing.T) *models.Bug {
		t.Helper()
		bug, err := svc.Create(asCaller(tester), &CreateBugRequest{
			Description: "Disposable",
			Severity:    "Low",
			Priority:    "Low",
			ProjectID:   project.ID,
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		return bug
	}

	t.Run("reporter deletes own bug", func(t *testing.T) {
		bug := file(t)
		if err := svc.Delete(asCaller(tester), bug.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		var count int64
		db.Model(&models.Bug{}).Where("id = ?", bug.ID).Count(&count)
		if count != 0 {
			t.Error("bug still present after delete")
		}
	})

	t.Run("project creator deletes", func(t *testing.T) {
		bug := file(t)
		if err := svc.Delete(asCaller(creator), bug.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
	})

	t.Run("project member deletes", func(t *testing.T) {
		bug := file(t)
		if err := svc.Delete(asCaller(member), bug.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
	})

	t.Run("other tester denied", func(t *testing.T) {
		bug := file(t)
		err := svc.Delete(asCaller(otherTester), bug.ID)
		wantAppError(t, err, http.StatusForbidden, http.StatusForbidden)
	})

	t.Run("unrelated manager denied", func(t *testing.T) {
		bug := file(t)
		err := svc.Delete(asCaller(stranger), bug.ID)
		wantAppError(t, err, http.StatusForbidden, http.StatusForbidden)
	})

	t.Run("unknown bug is 404", func(t *testing.T) {
		err := svc.Delete(asCaller(creator), 9999)
		wantAppError(t, err, http.StatusNotFound, http.StatusNotFound)
	})
}
