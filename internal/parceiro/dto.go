package parceiro

type criarParceiroRequest struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"omitempty,email"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
}

type ativoRequest struct {
	Active bool `json:"active"`
}
