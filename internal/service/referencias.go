package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/contabhub/financeiro-server/internal/erp"
	"github.com/contabhub/financeiro-server/internal/session"
)

// referenciasGateway is the slice of the ERP gateway the drawers' reference
// loads use.
type referenciasGateway interface {
	ListClientes(ctx context.Context, sess session.Session) ([]erp.Cliente, error)
	ListCategorias(ctx context.Context, sess session.Session) ([]erp.Categoria, error)
	ListSubcategorias(ctx context.Context, sess session.Session) ([]erp.Subcategoria, error)
	ListCentrosCusto(ctx context.Context, sess session.Session) ([]erp.CentroCusto, error)
	ListContas(ctx context.Context, sess session.Session) ([]erp.Conta, error)
	ListContasAPI(ctx context.Context, sess session.Session) ([]erp.ContaAPI, error)
}

// SubcategoriaOpcao is one eligible subcategory select option, joined to its
// parent category.
type SubcategoriaOpcao struct {
	ID            int64  `json:"id"`
	Nome          string `json:"nome"`
	CategoriaID   int64  `json:"categoria_id"`
	CategoriaNome string `json:"categoria_nome"`
}

// Referencias bundles every lookup list a drawer needs, loaded in one shot.
type Referencias struct {
	Clientes      []erp.Cliente       `json:"clientes"`
	Categorias    []erp.Categoria     `json:"categorias"`
	Subcategorias []SubcategoriaOpcao `json:"subcategorias"`
	CentrosCusto  []erp.CentroCusto   `json:"centros_custo"`
	Contas        []erp.Conta         `json:"contas"`
	ContasAPI     []erp.ContaAPI      `json:"contas_api"`
}

type ReferenciasService struct {
	erp referenciasGateway
}

func NewReferenciasService(gateway referenciasGateway) *ReferenciasService {
	return &ReferenciasService{erp: gateway}
}

// Carregar fetches the six lookup lists in parallel and derives the
// subcategory options for the given listing type. Categories are filtered to
// the matching tipo ("Despesa" for saidas, "Receita" for entradas).
func (s *ReferenciasService) Carregar(ctx context.Context, sess session.Session, tipo Tipo) (*Referencias, error) {
	var (
		clientes      []erp.Cliente
		categorias    []erp.Categoria
		subcategorias []erp.Subcategoria
		centros       []erp.CentroCusto
		contas        []erp.Conta
		contasAPI     []erp.ContaAPI
	)

	fetches := []func() error{
		func() (err error) { clientes, err = s.erp.ListClientes(ctx, sess); return },
		func() (err error) { categorias, err = s.erp.ListCategorias(ctx, sess); return },
		func() (err error) { subcategorias, err = s.erp.ListSubcategorias(ctx, sess); return },
		func() (err error) { centros, err = s.erp.ListCentrosCusto(ctx, sess); return },
		func() (err error) { contas, err = s.erp.ListContas(ctx, sess); return },
		func() (err error) { contasAPI, err = s.erp.ListContasAPI(ctx, sess); return },
	}

	var wg sync.WaitGroup
	errs := make([]error, len(fetches))
	for i, fetch := range fetches {
		wg.Add(1)
		go func(i int, fetch func() error) {
			defer wg.Done()
			errs[i] = fetch()
		}(i, fetch)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	tipoCategoria := "Despesa"
	if tipo == TipoEntrada {
		tipoCategoria = "Receita"
	}

	categoriasDoTipo := make([]erp.Categoria, 0, len(categorias))
	nomePorCategoria := make(map[int64]string)
	for _, c := range categorias {
		if strings.EqualFold(c.Tipo, tipoCategoria) {
			categoriasDoTipo = append(categoriasDoTipo, c)
			nomePorCategoria[c.ID] = c.Nome
		}
	}

	return &Referencias{
		Clientes:      clientes,
		Categorias:    categoriasDoTipo,
		Subcategorias: MontarOpcoesSubcategoria(subcategorias, nomePorCategoria),
		CentrosCusto:  centros,
		Contas:        contas,
		ContasAPI:     contasAPI,
	}, nil
}

// MontarOpcoesSubcategoria keeps only subcategories whose parent category was
// loaded for the relevant type, sorted by parent name then subcategory name.
func MontarOpcoesSubcategoria(subcategorias []erp.Subcategoria, nomePorCategoria map[int64]string) []SubcategoriaOpcao {
	opcoes := make([]SubcategoriaOpcao, 0, len(subcategorias))
	for _, sub := range subcategorias {
		nome, ok := nomePorCategoria[sub.CategoriaID]
		if !ok {
			continue
		}
		opcoes = append(opcoes, SubcategoriaOpcao{
			ID:            sub.ID,
			Nome:          sub.Nome,
			CategoriaID:   sub.CategoriaID,
			CategoriaNome: nome,
		})
	}

	sort.Slice(opcoes, func(i, j int) bool {
		if opcoes[i].CategoriaNome != opcoes[j].CategoriaNome {
			return opcoes[i].CategoriaNome < opcoes[j].CategoriaNome
		}
		return opcoes[i].Nome < opcoes[j].Nome
	})

	return opcoes
}
