package server

import (
	"usergraph/internal/models"
	"usergraph/internal/service"
	"usergraph/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetUsers handles GET /api/users
// @Summary List users
// @Description Every user with friend ids and popularity score, newest first
// @Tags users
// @Produce json
// @Success 200 {array} models.UserView
// @Failure 500 {object} models.ErrorResponse
// @Router /users [get]
func (s *Server) GetUsers(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	users, err := s.graphService.ListUsers(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

// GetUser handles GET /api/users/:id
// @Summary Get user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.UserView
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [get]
func (s *Server) GetUser(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := s.graphService.GetUser(ctx, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// CreateUser handles POST /api/users
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Param request body validation.CreateUserRequest true "New user"
// @Success 201 {object} models.UserView
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /users [post]
func (s *Server) CreateUser(c *fiber.Ctx) error {
	var req validation.CreateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := s.graphService.CreateUser(ctx, service.CreateUserInput{
		Username: req.Username,
		Age:      req.Age,
		Hobbies:  req.Hobbies,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// UpdateUser handles PUT /api/users/:id
// @Summary Update user
// @Description Partial update; omitted fields are unchanged
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body validation.UpdateUserRequest true "Fields to change"
// @Success 200 {object} models.UserView
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /users/{id} [put]
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	var req validation.UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return nil
	}
	if err := validation.RejectNull(c.Body(), req, "username", "age", "hobbies"); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	in := service.UpdateUserInput{Username: req.Username, Age: req.Age}
	if req.Hobbies != nil {
		in.Hobbies = *req.Hobbies
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := s.graphService.UpdateUser(ctx, c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// DeleteUser handles DELETE /api/users/:id
// @Summary Delete user
// @Description Fails with 409 while the user still has friendships
// @Tags users
// @Param id path string true "User ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /users/{id} [delete]
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := s.graphService.DeleteUser(ctx, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LinkUsers handles POST /api/users/:id/link
// @Summary Create friendship
// @Tags friendships
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body validation.LinkRequest true "Target user"
// @Success 201 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /users/{id}/link [post]
func (s *Server) LinkUsers(c *fiber.Ctx) error {
	var req validation.LinkRequest
	if err := bindAndValidate(c, &req); err != nil {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if _, err := s.graphService.LinkUsers(ctx, c.Params("id"), req.TargetUserID); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.MessageResponse{Message: "Users linked successfully"})
}

// UnlinkUsers handles DELETE /api/users/:id/unlink
// @Summary Remove friendship
// @Tags friendships
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body validation.LinkRequest true "Target user"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/unlink [delete]
func (s *Server) UnlinkUsers(c *fiber.Ctx) error {
	var req validation.LinkRequest
	if err := bindAndValidate(c, &req); err != nil {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := s.graphService.UnlinkUsers(ctx, c.Params("id"), req.TargetUserID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.MessageResponse{Message: "Users unlinked successfully"})
}

// AddHobby handles POST /api/users/:id/hobby
// @Summary Add hobby
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body validation.HobbyRequest true "Hobby"
// @Success 200 {object} models.UserView
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/hobby [post]
func (s *Server) AddHobby(c *fiber.Ctx) error {
	var req validation.HobbyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := s.graphService.AddHobby(ctx, c.Params("id"), req.Hobby)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// GetGraph handles GET /api/graph
// @Summary Full graph
// @Description All users and all friendship edges
// @Tags graph
// @Produce json
// @Success 200 {object} models.Graph
// @Router /graph [get]
func (s *Server) GetGraph(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	graph, err := s.graphService.GetGraph(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(graph)
}
