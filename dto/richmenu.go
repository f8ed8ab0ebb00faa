package dto

// RichMenu describes a rich menu to be created.
type RichMenu struct {
	Size        RichMenuSize   `json:"size"`
	Selected    bool           `json:"selected"`
	Name        string         `json:"name" validate:"required,max=300"`
	ChatBarText string         `json:"chatBarText" validate:"required,max=14"`
	Areas       []RichMenuArea `json:"areas" validate:"required,min=1,max=20,dive"`
}

// RichMenuSize is the pixel size of the menu image.
type RichMenuSize struct {
	Width  int `json:"width" validate:"required"`
	Height int `json:"height" validate:"required"`
}

// RichMenuArea binds a tappable region of the menu to an action.
type RichMenuArea struct {
	Bounds RichMenuBounds `json:"bounds"`
	Action RichMenuAction `json:"action"`
}

// RichMenuBounds is a region within the menu image.
type RichMenuBounds struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width" validate:"required"`
	Height int `json:"height" validate:"required"`
}

// RichMenuAction is the action fired when an area is tapped.
type RichMenuAction struct {
	Type  string `json:"type" validate:"required"`
	Label string `json:"label,omitempty"`
	Data  string `json:"data,omitempty"`
	Text  string `json:"text,omitempty"`
	URI   string `json:"uri,omitempty"`
}

// RichMenuResponse is a stored rich menu: the definition plus its ID.
type RichMenuResponse struct {
	RichMenuID string `json:"richMenuId"`
	RichMenu
}

// RichMenuList wraps the rich menu listing response.
type RichMenuList struct {
	RichMenus []RichMenuResponse `json:"richmenus"`
}

// RichMenuID wraps responses that carry only a rich menu ID.
type RichMenuID struct {
	RichMenuID string `json:"richMenuId"`
}
