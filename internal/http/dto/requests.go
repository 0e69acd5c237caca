package dto

// Forms are posted as application/x-www-form-urlencoded. Dates and numbers are
// kept as strings so malformed input is reported as a validation message.

type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type RegisterForm struct {
	Username       string `form:"username" validate:"required,max=150"`
	Email          string `form:"email" validate:"required,email"`
	Password       string `form:"password" validate:"required"`
	BrandName      string `form:"brand_name" validate:"max=200"`
	InfluencerName string `form:"influencer_name" validate:"max=200"`
	Niche          string `form:"niche" validate:"max=100"`
	ChannelHandle  string `form:"channel_handle" validate:"max=200"`
}

type CampaignForm struct {
	Name        string `form:"name" validate:"required,max=200"`
	Niche       string `form:"niche" validate:"required,max=100"`
	StartDate   string `form:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string `form:"end_date" validate:"required,datetime=2006-01-02"`
	Budget      string `form:"budget" validate:"required,numeric"`
	IsPrivate   string `form:"is_private"`
	Description string `form:"description"`
	Requirement string `form:"requirement"`
}

type NegotiateForm struct {
	PaymentAmount string `form:"payment_amount" validate:"required,numeric"`
}

type AdRequestForm struct {
	InfluencerID  string `form:"influencer_id" validate:"required,number"`
	PaymentAmount string `form:"payment_amount" validate:"required,numeric"`
	Message       string `form:"message" validate:"max=2000"`
}
