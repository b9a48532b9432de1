package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/hr-portal/recruitment-service/internal/api/dto"
	"github.com/hr-portal/recruitment-service/internal/domain"
	"github.com/hr-portal/recruitment-service/internal/repository"
	"github.com/hr-portal/recruitment-service/internal/service"
)

// UsersHandler manages internal accounts.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// Create handles POST /users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.CreateUserRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	user, err := h.users.Create(c.UserContext(), actor, service.UserCreateInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
		Department: req.Department,
		Phone:      req.Phone,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": userResponse(user)})
}

// List handles GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	filter := repository.UserFilter{
		Department: optionalQuery(c, "department"),
		SearchTerm: optionalQuery(c, "q"),
		Limit:      limit,
		Offset:     offset,
	}
	for _, r := range splitQuery(c, "role") {
		filter.Roles = append(filter.Roles, domain.Role(r))
	}
	if c.Query("active") != "" {
		active := parseBoolQuery(c, "active", true)
		filter.Active = &active
	}

	users, err := h.users.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	resp := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, userResponse(&users[i]))
	}
	return listResponse(c, resp, limit, offset)
}

// Get handles GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.users.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// Update handles PATCH /users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	user, err := h.users.Update(c.UserContext(), actor, c.Params("id"), service.UserUpdateInput{
		Name:       req.Name,
		Role:       req.Role,
		Department: req.Department,
		Phone:      req.Phone,
		Active:     req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}
