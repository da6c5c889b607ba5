package usecase_test

import (
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/marketplace-pro/internal/application/dto"
	"github.com/tu-usuario/marketplace-pro/internal/application/usecase"
	"github.com/tu-usuario/marketplace-pro/internal/domain"
	"github.com/tu-usuario/marketplace-pro/internal/domain/entity"
	"github.com/tu-usuario/marketplace-pro/internal/domain/repository"
)

// fakeProductRepo implementación en memoria del puerto, con el mismo contrato
// de atomicidad que el adaptador real: ApplyStatusChange es un check-and-set
// bajo lock, como el UPDATE condicionado en PostgreSQL.
type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]*entity.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[string]*entity.Product{}}
}

func (r *fakeProductRepo) Create(p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	cp.BusinessName = "Acme Corp"
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(businessID, id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.products[id]
	if p == nil || p.BusinessID != businessID {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) List(businessID string, filter repository.ProductFilter) ([]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.products {
		if p.BusinessID != businessID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeProductRepo) UpdateFields(p *entity.Product) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur := r.products[p.ID]
	if cur == nil || cur.BusinessID != p.BusinessID || !cur.IsEditable() {
		return false, nil
	}
	cur.Name = p.Name
	cur.Description = p.Description
	cur.Price = p.Price
	cur.UpdatedAt = p.UpdatedAt
	return true, nil
}

func (r *fakeProductRepo) ApplyStatusChange(businessID, id string, change repository.StatusChange) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.products[id]
	if p == nil || p.BusinessID != businessID || p.Status != change.From {
		return false, nil
	}
	p.Status = change.To
	if change.ApprovedBy != nil {
		p.ApprovedBy = &entity.ProductActor{ID: *change.ApprovedBy}
	}
	if change.ClearApprover {
		p.ApprovedBy = nil
	}
	return true, nil
}

func (r *fakeProductRepo) Delete(businessID, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.products[id]
	if p == nil || p.BusinessID != businessID {
		return false, nil
	}
	delete(r.products, id)
	return true, nil
}

func (r *fakeProductRepo) ListApproved(filter repository.PublicProductFilter, limit int) ([]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.products {
		if p.Status != entity.StatusApproved {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.MinPrice != nil && p.Price.LessThan(*filter.MinPrice) {
			continue
		}
		if filter.MaxPrice != nil && p.Price.GreaterThan(*filter.MaxPrice) {
			continue
		}
		cp := *p
		out = append(out, &cp)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeProductRepo) GetApprovedByID(id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.products[id]
	if p == nil || p.Status != entity.StatusApproved {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func precio(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario completo del ciclo de vida (el flujo del editor y el aprobador)
// ──────────────────────────────────────────────────────────────────────────────

func TestCicloDeVida_CrearEnviarAprobar(t *testing.T) {
	repo := newFakeProductRepo()
	uc := usecase.NewProductUseCase(repo)

	// Precio negativo: falla la validación antes de persistir nada.
	_, err := uc.Create("b1", "editor1", dto.CreateProductRequest{Name: "Widget", Price: precio("-5.00")})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)
	assert.Empty(t, repo.products, "no debe persistirse ninguna fila")

	// Precio válido: nace en draft, sin aprobador.
	created, err := uc.Create("b1", "editor1", dto.CreateProductRequest{Name: "Widget", Price: precio("10.00")})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDraft, created.Status)
	assert.Nil(t, created.ApprovedBy)
	require.NotNil(t, created.CreatedBy)
	assert.Equal(t, "editor1", created.CreatedBy.ID)

	// Enviar a aprobación.
	submitted, err := uc.Submit("b1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPendingApproval, submitted.Status)

	// Aprobar: queda approved con approved_by = actor.
	approved, err := uc.Approve("b1", created.ID, "approver1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, "approver1", approved.ApprovedBy.ID)

	// Un producto aprobado es inmutable, sin importar el rol del actor.
	nombre := "Widget v2"
	_, err = uc.Update("b1", created.ID, dto.UpdateProductRequest{Name: &nombre})
	assert.ErrorIs(t, err, domain.ErrProductApproved)
}

func TestSubmit_DesdeEstadoNoDraft_NombraElEstadoActual(t *testing.T) {
	repo := newFakeProductRepo()
	uc := usecase.NewProductUseCase(repo)

	created, err := uc.Create("b1", "editor1", dto.CreateProductRequest{Name: "Gadget", Price: precio("9.99")})
	require.NoError(t, err)
	_, err = uc.Submit("b1", created.ID)
	require.NoError(t, err)

	// Segundo submit: el producto ya está en pending_approval.
	_, err = uc.Submit("b1", created.ID)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Contains(t, err.Error(), entity.StatusPendingApproval,
		"el error debe nombrar el estado actual")

	// Aprobar un draft tampoco es legal.
	otro, err := uc.Create("b1", "editor1", dto.CreateProductRequest{Name: "Otro", Price: precio("1.00")})
	require.NoError(t, err)
	_, err = uc.Approve("b1", otro.ID, "approver1")
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Contains(t, err.Error(), entity.StatusDraft)
}

func TestReject_VuelveADraftYLimpiaAprobador(t *testing.T) {
	repo := newFakeProductRepo()
	uc := usecase.NewProductUseCase(repo)

	created, err := uc.Create("b1", "editor1", dto.CreateProductRequest{Name: "Doohickey", Price: precio("149.00")})
	require.NoError(t, err)
	_, err = uc.Submit("b1", created.ID)
	require.NoError(t, err)

	rejected, err := uc.Reject("b1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDraft, rejected.Status)
	assert.Nil(t, rejected.ApprovedBy, "reject debe limpiar approved_by")

	// Tras el rechazo el producto vuelve a ser editable.
	desc := "versión corregida"
	_, err = uc.Update("b1", created.ID, dto.UpdateProductRequest{Description: &desc})
	assert.NoError(t, err)
}

// interleaveProductRepo envuelve el fake y dispara un hook tras la primera
// lectura, para intercalar una transición entre el read y el write de un edit.
type interleaveProductRepo struct {
	*fakeProductRepo
	once       sync.Once
	onFirstGet func()
}

func (r *interleaveProductRepo) GetByID(businessID, id string) (*entity.Product, error) {
	p, err := r.fakeProductRepo.GetByID(businessID, id)
	if r.onFirstGet != nil {
		r.once.Do(r.onFirstGet)
	}
	return p, err
}

func TestUpdate_ApproveConcurrenteEntreLecturaYEscritura_Falla(t *testing.T) {
	inner := newFakeProductRepo()
	setup := usecase.NewProductUseCase(inner)

	created, err := setup.Create("b1", "editor1", dto.CreateProductRequest{Name: "Widget", Price: precio("10.00")})
	require.NoError(t, err)
	_, err = setup.Submit("b1", created.ID)
	require.NoError(t, err)

	// El edit lee el producto en pending (editable); antes de que escriba, un
	// approve gana la carrera. El UPDATE condicionado ya no encuentra la fila
	// editable y el edit debe fallar sin mutar el producto aprobado.
	approver := "approver1"
	repo := &interleaveProductRepo{fakeProductRepo: inner}
	repo.onFirstGet = func() {
		ok, err := inner.ApplyStatusChange("b1", created.ID, repository.StatusChange{
			From:       entity.StatusPendingApproval,
			To:         entity.StatusApproved,
			ApprovedBy: &approver,
		})
		require.NoError(t, err)
		require.True(t, ok)
	}
	uc := usecase.NewProductUseCase(repo)

	nombre := "Widget hackeado"
	_, err = uc.Update("b1", created.ID, dto.UpdateProductRequest{Name: &nombre})
	assert.ErrorIs(t, err, domain.ErrProductApproved,
		"editar un producto aprobado debe fallar siempre, incluso en carrera")

	final, err := inner.GetByID("b1", created.ID)
	require.NoError(t, err)
	require.NotNil(t, final)
	assert.Equal(t, "Widget", final.Name, "el nombre no debe haber cambiado")
	assert.Equal(t, entity.StatusApproved, final.Status)
}

func TestTransicionesConcurrentes_SoloUnaGana(t *testing.T) {
	repo := newFakeProductRepo()
	uc := usecase.NewProductUseCase(repo)

	created, err := uc.Create("b1", "editor1", dto.CreateProductRequest{Name: "Widget", Price: precio("10.00")})
	require.NoError(t, err)
	_, err = uc.Submit("b1", created.ID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() { defer wg.Done(); _, errs[0] = uc.Approve("b1", created.ID, "approver1") }()
	go func() { defer wg.Done(); _, errs[1] = uc.Reject("b1", created.ID) }()
	wg.Wait()

	exitos := 0
	for _, e := range errs {
		if e == nil {
			exitos++
		} else {
			assert.ErrorIs(t, e, domain.ErrInvalidTransition)
		}
	}
	assert.Equal(t, 1, exitos, "approve y reject concurrentes no pueden ganar ambos")
}

// ──────────────────────────────────────────────────────────────────────────────
// Aislamiento de tenant
// ──────────────────────────────────────────────────────────────────────────────

func TestAislamientoDeTenant_OtroBusinessEsNotFound(t *testing.T) {
	repo := newFakeProductRepo()
	uc := usecase.NewProductUseCase(repo)

	created, err := uc.Create("b1", "editor1", dto.CreateProductRequest{Name: "Widget", Price: precio("10.00")})
	require.NoError(t, err)

	// Desde el Business B el producto de A simplemente no existe.
	_, err = uc.GetByID("b2", created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Submit("b2", created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "ni siquiera una transición debe revelar su existencia")

	err = uc.Delete("b2", created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Y sigue intacto para su dueño.
	p, err := uc.GetByID("b1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDraft, p.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Listado público
// ──────────────────────────────────────────────────────────────────────────────

func TestPublico_SoloAprobadosYCamposReducidos(t *testing.T) {
	repo := newFakeProductRepo()
	uc := usecase.NewProductUseCase(repo)

	draft, err := uc.Create("b1", "editor1", dto.CreateProductRequest{Name: "Borrador", Price: precio("5.00")})
	require.NoError(t, err)

	aprobado, err := uc.Create("b1", "editor1", dto.CreateProductRequest{Name: "Widget Pro", Price: precio("29.99")})
	require.NoError(t, err)
	_, err = uc.Submit("b1", aprobado.ID)
	require.NoError(t, err)
	_, err = uc.Approve("b1", aprobado.ID, "approver1")
	require.NoError(t, err)

	list, err := uc.ListPublic(repository.PublicProductFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1, "solo los aprobados son visibles para el público")
	assert.Equal(t, "Widget Pro", list[0].Name)
	assert.Equal(t, "Acme Corp", list[0].BusinessName)

	// El detalle público de un producto no aprobado es NotFound.
	_, err = uc.GetPublicByID(draft.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	pub, err := uc.GetPublicByID(aprobado.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget Pro", pub.Name)
}

func TestPublico_FiltrosDePrecio(t *testing.T) {
	repo := newFakeProductRepo()
	uc := usecase.NewProductUseCase(repo)

	for _, c := range []struct{ name, price string }{
		{"Barato", "9.99"}, {"Medio", "29.99"}, {"Caro", "149.00"},
	} {
		p, err := uc.Create("b1", "editor1", dto.CreateProductRequest{Name: c.name, Price: precio(c.price)})
		require.NoError(t, err)
		_, err = uc.Submit("b1", p.ID)
		require.NoError(t, err)
		_, err = uc.Approve("b1", p.ID, "approver1")
		require.NoError(t, err)
	}

	min := usecase.ParsePriceFilter("10")
	max := usecase.ParsePriceFilter("50")
	require.NotNil(t, min)
	require.NotNil(t, max)

	list, err := uc.ListPublic(repository.PublicProductFilter{MinPrice: min, MaxPrice: max})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Medio", list[0].Name)

	// Un parámetro de precio no numérico se ignora, no falla.
	assert.Nil(t, usecase.ParsePriceFilter("abc"))
	assert.Nil(t, usecase.ParsePriceFilter(""))
}
