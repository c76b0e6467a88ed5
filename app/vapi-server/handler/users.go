package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"vapi.io/vapi/app/vapi-server/storage"
	"vapi.io/vapi/lib/logger"
	"vapi.io/vapi/lib/rest"
)

// usersAPI serves the users resource under API versions 1.0 and 2.0.
// Version 1.0 exposes id and name only; 2.0 adds email, mutation routes
// and the keyed-entity form with resource query options
type usersAPI struct {
	store *storage.UserStore
}

type userV1 struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (u *usersAPI) listV1(w http.ResponseWriter, r *http.Request) {
	users, ok := u.listUsers(w, r)
	if !ok {
		return
	}
	result := make([]userV1, 0, len(users))
	for _, each := range users {
		result = append(result, userV1{ID: each.ID, Name: each.Name})
	}
	writeJSON(w, http.StatusOK, result)
}

func (u *usersAPI) listV2(w http.ResponseWriter, r *http.Request) {
	users, ok := u.listUsers(w, r)
	if !ok {
		return
	}
	opts := rest.QueryOptions(r)
	if skip, err := queryOptionInt(opts, "$skip"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	} else if skip > 0 {
		if skip > len(users) {
			skip = len(users)
		}
		users = users[skip:]
	}
	if top, err := queryOptionInt(opts, "$top"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	} else if top > 0 && top < len(users) {
		users = users[:top]
	}
	if fields := opts["$select"]; fields != "" {
		writeJSON(w, http.StatusOK, selectFields(users, fields))
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (u *usersAPI) getV1(w http.ResponseWriter, r *http.Request) {
	user, ok := u.getUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, userV1{ID: user.ID, Name: user.Name})
}

func (u *usersAPI) getV2(w http.ResponseWriter, r *http.Request) {
	user, ok := u.getUser(w, r)
	if !ok {
		return
	}
	if fields := rest.QueryOptions(r)["$select"]; fields != "" {
		writeJSON(w, http.StatusOK, selectFields([]storage.User{*user}, fields)[0])
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (u *usersAPI) create(w http.ResponseWriter, r *http.Request) {
	if u.store == nil {
		writeError(w, http.StatusServiceUnavailable, "storage is not configured; see -postgres.dsn")
		return
	}
	var body struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "cannot parse request body: "+err.Error())
		return
	}
	if body.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	user, err := u.store.Create(r.Context(), body.Name, body.Email)
	if err != nil {
		logger.Errorf("cannot create user: %s", err)
		writeError(w, http.StatusInternalServerError, "cannot create user")
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (u *usersAPI) update(w http.ResponseWriter, r *http.Request) {
	id, ok := u.userID(w, r)
	if !ok {
		return
	}
	var body struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "cannot parse request body: "+err.Error())
		return
	}
	user, err := u.store.Update(r.Context(), id, body.Name, body.Email)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		logger.Errorf("cannot update user %d: %s", id, err)
		writeError(w, http.StatusInternalServerError, "cannot update user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (u *usersAPI) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := u.userID(w, r)
	if !ok {
		return
	}
	err := u.store.Delete(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		logger.Errorf("cannot delete user %d: %s", id, err)
		writeError(w, http.StatusInternalServerError, "cannot delete user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (u *usersAPI) listUsers(w http.ResponseWriter, r *http.Request) ([]storage.User, bool) {
	if u.store == nil {
		writeError(w, http.StatusServiceUnavailable, "storage is not configured; see -postgres.dsn")
		return nil, false
	}
	users, err := u.store.List(r.Context())
	if err != nil {
		logger.Errorf("cannot list users: %s", err)
		writeError(w, http.StatusInternalServerError, "cannot list users")
		return nil, false
	}
	return users, true
}

func (u *usersAPI) getUser(w http.ResponseWriter, r *http.Request) (*storage.User, bool) {
	id, ok := u.userID(w, r)
	if !ok {
		return nil, false
	}
	user, err := u.store.Get(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "user not found")
		return nil, false
	}
	if err != nil {
		logger.Errorf("cannot get user %d: %s", id, err)
		writeError(w, http.StatusInternalServerError, "cannot get user")
		return nil, false
	}
	return user, true
}

func (u *usersAPI) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	if u.store == nil {
		writeError(w, http.StatusServiceUnavailable, "storage is not configured; see -postgres.dsn")
		return 0, false
	}
	id, err := strconv.ParseInt(rest.PathParam(r, "userId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return 0, false
	}
	return id, true
}

// selectFields projects users onto the fields named in a $select query option
func selectFields(users []storage.User, fields string) []map[string]any {
	names := strings.Split(fields, ",")
	result := make([]map[string]any, 0, len(users))
	for _, each := range users {
		row := make(map[string]any, len(names))
		for _, name := range names {
			switch strings.TrimSpace(name) {
			case "id":
				row["id"] = each.ID
			case "name":
				row["name"] = each.Name
			case "email":
				row["email"] = each.Email
			case "createdAt":
				row["createdAt"] = each.CreatedAt
			}
		}
		result = append(result, row)
	}
	return result
}

func queryOptionInt(opts map[string]string, name string) (int, error) {
	s := opts[name]
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.New("invalid " + name + " value " + strconv.Quote(s))
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set(rest.HEADER_ContentType, rest.MIME_JSON)
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf("cannot write JSON response: %s", err)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
