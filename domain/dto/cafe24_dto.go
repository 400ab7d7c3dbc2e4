package dto

// ProductListParams maps to GET /admin/products query parameters.
type ProductListParams struct {
	Limit   int    `url:"limit,omitempty" form:"limit"`
	Offset  int    `url:"offset,omitempty" form:"offset"`
	Display string `url:"display,omitempty" form:"display"`
	Selling string `url:"selling,omitempty" form:"selling"`
}

// ArticleListParams maps to GET /admin/boards/{board_no}/articles.
type ArticleListParams struct {
	ProductNo int `url:"product_no,omitempty"`
	Limit     int `url:"limit,omitempty"`
	Offset    int `url:"offset,omitempty"`
}

type OrderListParams struct {
	StartDate   string `url:"start_date,omitempty" form:"start_date"`
	EndDate     string `url:"end_date,omitempty" form:"end_date"`
	OrderStatus string `url:"order_status,omitempty" form:"order_status"`
	Limit       int    `url:"limit,omitempty" form:"limit"`
	Offset      int    `url:"offset,omitempty" form:"offset"`
}

type CustomerListParams struct {
	MemberID  string `url:"member_id,omitempty" form:"member_id"`
	Cellphone string `url:"cellphone,omitempty" form:"cellphone"`
	Email     string `url:"email,omitempty" form:"email"`
	Limit     int    `url:"limit,omitempty" form:"limit"`
	Offset    int    `url:"offset,omitempty" form:"offset"`
}

// ScriptTagRequest is the "request" envelope of the scripttags endpoints.
type ScriptTagRequest struct {
	Src             string   `json:"src"`
	DisplayLocation []string `json:"display_location"`
	ExcludePath     []string `json:"exclude_path"`
	SkinNo          []int    `json:"skin_no"`
}

type ScriptTagEnvelope struct {
	ShopNo  int              `json:"shop_no"`
	Request ScriptTagRequest `json:"request"`
}
