package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/roach88/syncgo/internal/catalog"
	"github.com/roach88/syncgo/internal/journal"
)

func (s *Server) handleCatalog(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": fiber.Map{
		"tags":       catalog.CommonTags,
		"categories": catalog.Categories,
		"reactions":  catalog.ReactionEmojis,
	}})
}

func (s *Server) handleSignup(c *fiber.Ctx) error {
	var payload struct {
		DisplayName string `json:"display_name"`
	}
	if err := parseBody(c, &payload); err != nil {
		return err
	}

	p, err := s.journal.Signup(c.UserContext(), journal.SignupInput{
		UserID:      userID(c),
		DisplayName: payload.DisplayName,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": p})
}

func (s *Server) handleGetProfile(c *fiber.Ctx) error {
	view, err := s.journal.Profile(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": view})
}

func (s *Server) handleUpdateProfile(c *fiber.Ctx) error {
	var upd journal.ProfileUpdate
	if err := parseBody(c, &upd); err != nil {
		return err
	}

	p, err := s.journal.UpdateProfile(c.UserContext(), userID(c), upd)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": p})
}

func (s *Server) handleListAwards(c *fiber.Ctx) error {
	awards, err := s.journal.Awards(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": awards, "meta": fiber.Map{"count": len(awards)}})
}

func (s *Server) handleSubmit(c *fiber.Ctx) error {
	var in journal.SubmitInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	in.UserID = userID(c)

	res, err := s.journal.Submit(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": res,
		"meta": fiber.Map{"points_awarded": res.TotalPoints()},
	})
}

func (s *Server) handleListEntries(c *fiber.Ctx) error {
	events, err := s.journal.Entries(c.UserContext(), userID(c), c.Query("tag"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": events, "meta": fiber.Map{"count": len(events)}})
}

func (s *Server) handlePatterns(c *fiber.Ctx) error {
	p, err := s.journal.Patterns(c.UserContext(), userID(c), c.Query("tag"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": p})
}

func (s *Server) handleFeed(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	if limit < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "limit must be non-negative")
	}

	items, err := s.journal.Feed(c.UserContext(), userID(c), c.Query("tag"), limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": items, "meta": fiber.Map{"count": len(items)}})
}

func (s *Server) handleToggleReaction(c *fiber.Ctx) error {
	var payload struct {
		Emoji string `json:"emoji"`
	}
	if err := parseBody(c, &payload); err != nil {
		return err
	}

	res, err := s.journal.ToggleReaction(c.UserContext(), userID(c), c.Params("id"), payload.Emoji)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": res})
}

func (s *Server) handleTrends(c *fiber.Ctx) error {
	report, err := s.journal.Trends(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": report})
}

func (s *Server) handleMap(c *fiber.Ctx) error {
	events, err := s.journal.MapEntries(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": events, "meta": fiber.Map{"count": len(events)}})
}
