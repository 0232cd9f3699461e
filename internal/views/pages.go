package views

import "moviesocial/proj/internal/domain/models"

type HomeData struct {
	Movies []models.Movie
	Error  string
}

type SearchData struct {
	Query  string
	Result *models.SearchResult
	Error  string
}

type ReviewForm struct {
	Rating   int    `schema:"rating" validate:"gte=1,lte=10" errorMsg:"Rating must be between 1 and 10"`
	Title    string `schema:"title" validate:"required" errorMsg:"Review title is required"`
	Content  string `schema:"content" validate:"required" errorMsg:"Review content is required"`
	Spoilers bool   `schema:"spoilers"`
}

type MovieData struct {
	Movie        *models.Movie
	Error        string
	Reviews      []models.Review
	ReviewsError string
	IsFavorite   bool
	CanFavorite  bool
	CanReview    bool
}

type ProfileData struct {
	User           *models.User
	Error          string
	Reviews        []models.Review
	ReviewsError   string
	Favorites      []models.Favorite
	FavoritesError string
	IsOwn          bool
	ShowEmail      bool
}

type ProfileForm struct {
	Bio           string `schema:"bio" validate:"max=500"`
	FavoriteGenre string `schema:"favoriteGenre" validate:"genre"`
	EmailPublic   bool   `schema:"emailPublic"`
}

type ProfileEditData struct {
	User   *models.User
	Form   ProfileForm
	Genres []string
	Error  string
}

type RegisterForm struct {
	Username        string      `schema:"username" validate:"required"`
	Email           string      `schema:"email" validate:"required,email"`
	Password        string      `schema:"password" validate:"min=6" errorMsg:"Password must be at least 6 characters"`
	ConfirmPassword string      `schema:"confirmPassword" validate:"eqfield=Password" errorMsg:"Passwords do not match"`
	Role            models.Role `schema:"role" validate:"oneof=casual reviewer"`
	Bio             string      `schema:"bio" validate:"max=500"`
	FavoriteGenre   string      `schema:"favoriteGenre" validate:"genre"`
}

type RegisterData struct {
	Form   RegisterForm
	Genres []string
	Error  string
}

type LoginForm struct {
	Username string `schema:"username" validate:"required"`
	Password string `schema:"password" validate:"required"`
}

type LoginData struct {
	Username string
	Error    string
}

type ErrorData struct {
	Status  int
	Message string
}
