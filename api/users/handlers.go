package users

import (
	"coffeeshop_server/api/middleware"
	"coffeeshop_server/handling"
	"coffeeshop_server/lib"
	"coffeeshop_server/structs"
	"coffeeshop_server/structs/tables"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// ListUsers serves GET /users, filtered by ?role=WAITER or ?active=true.
func (urm *UserRoutesManager) ListUsers(w http.ResponseWriter, r *http.Request) {
	active, err := handling.BoolQuery(r, "active")
	if err != nil {
		handling.HandleError(err, "Invalid filters", urm.logger, w)
		return
	}

	var list []tables.User
	switch {
	case r.URL.Query().Get("role") != "":
		role, _ := tables.ParseUserRole(r.URL.Query().Get("role"))
		list, err = urm.userService.GetUsersByRole(r.Context(), role)
	case active != nil && *active:
		list, err = urm.userService.GetActiveUsers(r.Context())
	default:
		list, err = urm.userService.GetAllUsers(r.Context())
	}
	if err != nil {
		handling.HandleError(err, "Failed to load users", urm.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(list), gecho.Send())
}

func (urm *UserRoutesManager) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := handling.IDParam(r, "id")
	if err != nil {
		handling.HandleError(err, "Invalid user id", urm.logger, w)
		return
	}

	user, err := urm.userService.GetUserByID(r.Context(), id)
	if err != nil {
		handling.HandleError(err, "Failed to load user", urm.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(user), gecho.Send())
}

func (urm *UserRoutesManager) CreateUser(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CreateUserRequest](r)
	if err != nil {
		handling.HandleError(err, "Invalid user", urm.logger, w)
		return
	}

	role, _ := tables.ParseUserRole(body.Role)
	user := &tables.User{
		Username: body.Username,
		FullName: body.FullName,
		Email:    body.Email,
		Role:     role,
		IsActive: body.IsActive == nil || *body.IsActive,
	}

	saved, err := urm.userService.CreateUser(r.Context(), user, body.Password)
	if err != nil {
		handling.HandleError(err, "Failed to create user", urm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("User created"),
		gecho.WithData(saved),
		gecho.Send(),
	)
}

func (urm *UserRoutesManager) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := handling.IDParam(r, "id")
	if err != nil {
		handling.HandleError(err, "Invalid user id", urm.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.UpdateUserRequest](r)
	if err != nil {
		handling.HandleError(err, "Invalid user", urm.logger, w)
		return
	}

	user, err := urm.userService.GetUserByID(r.Context(), id)
	if err != nil {
		handling.HandleError(err, "Failed to update user", urm.logger, w)
		return
	}

	role, _ := tables.ParseUserRole(body.Role)
	user.Username = body.Username
	user.FullName = body.FullName
	user.Email = body.Email
	user.Role = role

	if err := urm.userService.UpdateUser(r.Context(), user); err != nil {
		handling.HandleError(err, "Failed to update user", urm.logger, w)
		return
	}

	if body.Password != "" {
		if err := urm.userService.ResetPassword(r.Context(), id, body.Password); err != nil {
			handling.HandleError(err, "Failed to reset password", urm.logger, w)
			return
		}
	}

	gecho.Success(w,
		gecho.WithMessage("User updated"),
		gecho.WithData(user),
		gecho.Send(),
	)
}

func (urm *UserRoutesManager) SetUserActive(w http.ResponseWriter, r *http.Request) {
	id, err := handling.IDParam(r, "id")
	if err != nil {
		handling.HandleError(err, "Invalid user id", urm.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.ActiveRequest](r)
	if err != nil {
		handling.HandleError(err, "Invalid request body", urm.logger, w)
		return
	}

	if !*body.Active && isCaller(r, id) {
		handling.HandleError(lib.NewValidationError("You cannot deactivate your own account"), "Failed to update user status", urm.logger, w)
		return
	}

	if err := urm.userService.UpdateUserStatus(r.Context(), id, *body.Active); err != nil {
		handling.HandleError(err, "Failed to update user status", urm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("User status updated"),
		gecho.Send(),
	)
}

func (urm *UserRoutesManager) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := handling.IDParam(r, "id")
	if err != nil {
		handling.HandleError(err, "Invalid user id", urm.logger, w)
		return
	}

	if isCaller(r, id) {
		handling.HandleError(lib.NewValidationError("You cannot delete your own account"), "Failed to delete user", urm.logger, w)
		return
	}

	if err := urm.userService.DeleteUser(r.Context(), id); err != nil {
		handling.HandleError(err, "Failed to delete user", urm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("User deleted"),
		gecho.Send(),
	)
}

func isCaller(r *http.Request, id int64) bool {
	session, ok := middleware.SessionFromContext(r.Context())
	return ok && session.User != nil && session.User.ID == id
}
