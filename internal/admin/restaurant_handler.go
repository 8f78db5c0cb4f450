package admin

import (
	"strings"

	"donmenu-backend/internal/database"
	"donmenu-backend/internal/models"
	"donmenu-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type RestaurantResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	CNPJ      string `json:"cnpj"`
	CreatedAt string `json:"created_at"`
}

type CreateRestaurantRequest struct {
	Name    string  `json:"name" validate:"required"`
	Address string  `json:"address"`
	Phone   *string `json:"phone"` // Opcional
	CNPJ    *string `json:"cnpj"`  // Opcional
}

type UpdateRestaurantRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	CNPJ    *string `json:"cnpj"`
}

type CreateRestaurantAdminRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type RestaurantAdminResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	RestaurantID *uint  `json:"restaurant_id"`
	CreatedAt    string `json:"created_at"`
}

// ----------------------------------------
// RESTAURANTE CRUD (só super_admin)
// ----------------------------------------

func CreateRestaurantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateRestaurantRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados inválidos")
		}

		body.Name = strings.TrimSpace(body.Name)
		if err := validation.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		restaurant := models.Restaurant{
			Name:    body.Name,
			Address: body.Address,
		}
		if body.Phone != nil {
			restaurant.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.CNPJ != nil {
			restaurant.CNPJ = strings.TrimSpace(*body.CNPJ)
		}

		if err := database.DB.Create(&restaurant).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar o restaurante")
		}

		return c.Status(fiber.StatusCreated).JSON(toRestaurantResponse(restaurant))
	}
}

func ListRestaurantsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var restaurants []models.Restaurant
		if err := database.DB.Order("name asc").Find(&restaurants).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os restaurantes")
		}

		res := make([]RestaurantResponse, 0, len(restaurants))
		for _, r := range restaurants {
			res = append(res, toRestaurantResponse(r))
		}
		return c.JSON(res)
	}
}

func GetRestaurantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var restaurant models.Restaurant
		if err := database.DB.First(&restaurant, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Restaurante não encontrado")
		}

		return c.JSON(toRestaurantResponse(restaurant))
	}
}

func UpdateRestaurantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var restaurant models.Restaurant
		if err := database.DB.First(&restaurant, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Restaurante não encontrado")
		}

		var body UpdateRestaurantRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados inválidos")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Nome não pode ser vazio")
			}
			restaurant.Name = name
		}
		if body.Address != nil {
			restaurant.Address = strings.TrimSpace(*body.Address)
		}
		if body.Phone != nil {
			restaurant.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.CNPJ != nil {
			restaurant.CNPJ = strings.TrimSpace(*body.CNPJ)
		}

		if err := database.DB.Save(&restaurant).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar o restaurante")
		}

		return c.JSON(toRestaurantResponse(restaurant))
	}
}

func DeleteRestaurantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var count int64
		database.DB.Model(&models.User{}).Where("restaurant_id = ?", id).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Restaurante possui usuários vinculados")
		}

		if err := database.DB.Delete(&models.Restaurant{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir o restaurante")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/admin/restaurants/:id/admin
func CreateRestaurantAdminHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var restaurant models.Restaurant
		if err := database.DB.First(&restaurant, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Restaurante não encontrado")
		}

		var body CreateRestaurantAdminRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dados inválidos")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if err := validation.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var existing models.User
		if err := database.DB.Where("email = ?", body.Email).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Este e-mail já está em uso")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gerar o hash da senha")
		}

		user := models.User{
			RestaurantID: &restaurant.ID,
			Name:         body.Name,
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         models.RoleRestaurantAdmin,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar o usuário")
		}

		return c.Status(fiber.StatusCreated).JSON(RestaurantAdminResponse{
			ID:           user.ID,
			Name:         user.Name,
			Email:        user.Email,
			Role:         string(user.Role),
			RestaurantID: user.RestaurantID,
			CreatedAt:    user.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

// GET /api/admin/restaurants/:id/admins
func ListRestaurantAdminsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var users []models.User
		if err := database.DB.Where("restaurant_id = ?", id).Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os usuários")
		}

		res := make([]RestaurantAdminResponse, 0, len(users))
		for _, u := range users {
			res = append(res, RestaurantAdminResponse{
				ID:           u.ID,
				Name:         u.Name,
				Email:        u.Email,
				Role:         string(u.Role),
				RestaurantID: u.RestaurantID,
				CreatedAt:    u.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		return c.JSON(res)
	}
}

func toRestaurantResponse(r models.Restaurant) RestaurantResponse {
	return RestaurantResponse{
		ID:        r.ID,
		Name:      r.Name,
		Address:   r.Address,
		Phone:     r.Phone,
		CNPJ:      r.CNPJ,
		CreatedAt: r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
