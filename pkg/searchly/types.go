package searchly

// Request and response shapes for the Searchly backend JSON API. The backend
// reports most failures as a non-2xx status with a human-readable "message"
// field; success bodies reuse the same field alongside the payload.

// LoginRequest is the body for POST /userlogin.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterUser is the nested user object for POST /userregister.
type RegisterUser struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body for POST /userregister.
type RegisterRequest struct {
	User RegisterUser `json:"user"`
}

// AuthResponse is the success body for both auth endpoints.
type AuthResponse struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
	Name        string `json:"name"`
	Email       string `json:"email"`
}

// EmailRequest is the body for endpoints keyed on user identity only.
type EmailRequest struct {
	Email string `json:"email"`
}

// RecommendationsResponse is the success body for POST /get_recommendations.
type RecommendationsResponse struct {
	Message string        `json:"message"`
	Result  []ProductJSON `json:"result"`
}

// FavouritesResponse is the success body for the favourites endpoints.
type FavouritesResponse struct {
	Message     string        `json:"message"`
	FavProducts []ProductJSON `json:"fav_products"`
}

// AddFavouriteRequest is the body for POST /add_favourite. The full product
// record travels with the request because the backend stores it verbatim.
type AddFavouriteRequest struct {
	Email   string      `json:"email"`
	Product ProductJSON `json:"product"`
}

// RemoveFavouriteRequest is the body for POST /remove_favourite. The backend
// matches the stored product by its url.
type RemoveFavouriteRequest struct {
	Email      string `json:"email"`
	ProductURL string `json:"product_url"`
}

// RecommendRequest is the body for POST /recommend and /recommend_from_db.
type RecommendRequest struct {
	Email string `json:"email"`
	Query string `json:"query"`
}

// RecommendResponse is the success body for the chat recommendation
// endpoints: a conversational message, the product tags derived from the
// query, and one product per tag.
type RecommendResponse struct {
	Message       string                 `json:"message"`
	ProductTags   []string               `json:"product_tags"`
	SearchResults map[string]ProductJSON `json:"search_results"`
}

// ProductJSON is the wire form of a product record.
type ProductJSON struct {
	Name    string  `json:"name"`
	Image   string  `json:"image"`
	Price   string  `json:"price"`
	Rating  *string `json:"rating"`
	Reviews *string `json:"reviews"`
	URL     string  `json:"url"`
}

// errorResponse is the body the backend returns with non-2xx statuses.
type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
