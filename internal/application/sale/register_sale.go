package sale

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/ports"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/inventory"
	"github.com/jhoicas/Ventas-api/internal/domain/sale"
	"github.com/jhoicas/Ventas-api/pkg/metrics"
	"github.com/jhoicas/Ventas-api/pkg/tracing"
)

// postCommitTimeout limita caché y publicación de eventos después del Commit.
const postCommitTimeout = 5 * time.Second

// RegisterSaleUseCase registra una venta de forma atómica e idempotente: valida stock,
// crea la venta, descuenta el ledger y deja un movimiento SALE por producto.
type RegisterSaleUseCase struct {
	tx        ports.TxRunner
	logger    zerolog.Logger
	cache     ports.SaleKeyCache
	publisher ports.SaleEventPublisher
	metrics   *metrics.Metrics
	tracer    trace.Tracer
	now       func() time.Time
}

// Option configura dependencias opcionales del caso de uso.
type Option func(*RegisterSaleUseCase)

// WithCache activa el atajo de idempotencia por caché.
func WithCache(c ports.SaleKeyCache) Option {
	return func(uc *RegisterSaleUseCase) { uc.cache = c }
}

// WithPublisher publica venta.registrada después de cada venta nueva.
func WithPublisher(p ports.SaleEventPublisher) Option {
	return func(uc *RegisterSaleUseCase) { uc.publisher = p }
}

// WithMetrics registra resultados y duración en prometheus.
func WithMetrics(m *metrics.Metrics) Option {
	return func(uc *RegisterSaleUseCase) { uc.metrics = m }
}

// WithClock reemplaza el reloj (pruebas).
func WithClock(now func() time.Time) Option {
	return func(uc *RegisterSaleUseCase) { uc.now = now }
}

// NewRegisterSaleUseCase construye el caso de uso.
func NewRegisterSaleUseCase(tx ports.TxRunner, logger zerolog.Logger, opts ...Option) *RegisterSaleUseCase {
	uc := &RegisterSaleUseCase{
		tx:     tx,
		logger: logger,
		tracer: tracing.Tracer("ventas"),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// SaleInput datos de la venta ya extraídos del request.
type SaleInput struct {
	LocalSaleID   string
	ClientID      string
	ClientName    string
	SellerID      string
	WarehouseID   string
	PaymentMethod string
	Comments      string
	Lines         []sale.Line
}

// RegisterSale devuelve el ID de la venta (la clave de idempotencia). Si la venta ya existía
// devuelve el mismo ID sin escribir nada más.
func (uc *RegisterSaleUseCase) RegisterSale(ctx context.Context, in SaleInput) (string, error) {
	start := time.Now()
	ctx, span := uc.tracer.Start(ctx, "ventas.RegisterSale")
	defer span.End()

	id, result, err := uc.register(ctx, in)
	uc.metrics.RecordSale(result, time.Since(start))

	span.SetAttributes(
		attribute.String("venta.id", id),
		attribute.Int("venta.productos", len(in.Lines)),
		attribute.String("venta.resultado", result),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	return id, nil
}

// RegisterSaleFromRequest valida el request HTTP y lo adapta a RegisterSale.
func (uc *RegisterSaleUseCase) RegisterSaleFromRequest(ctx context.Context, in dto.RegisterSaleRequest) (string, error) {
	if err := dto.Validate(in); err != nil {
		uc.metrics.RecordSale(metrics.SaleRejected, 0)
		return "", err
	}
	return uc.RegisterSale(ctx, SaleInput{
		LocalSaleID:   in.LocalSaleID.String(),
		ClientID:      in.ClienteID.String(),
		ClientName:    in.ClienteNombre.String(),
		SellerID:      in.VendedorID.String(),
		WarehouseID:   in.AlmacenVendedorID.String(),
		PaymentMethod: in.MetodoPago.String(),
		Comments:      in.Comentarios,
		Lines:         in.Lines(),
	})
}

func (uc *RegisterSaleUseCase) register(ctx context.Context, in SaleInput) (string, string, error) {
	lines, err := normalize(&in)
	if err != nil {
		return "", metrics.SaleRejected, err
	}
	key := sale.Key(in.SellerID, in.LocalSaleID)
	log := uc.logger.With().Str("venta_id", key).Str("almacen_id", in.WarehouseID).Logger()

	if uc.cache != nil {
		hit, err := uc.cache.Lookup(ctx, key)
		uc.metrics.RecordCacheLookup(hit)
		if err != nil {
			log.Warn().Err(err).Msg("caché de ventas no disponible; se consulta la base de datos")
		} else if hit {
			log.Info().Msg("venta ya registrada (caché)")
			return key, metrics.SaleDuplicate, nil
		}
	}

	var created *entity.Sale
	err = uc.tx.Run(ctx, func(ctx context.Context, repos ports.TxRepos) error {
		created = nil // la función puede reintentarse

		exists, err := repos.Sales.Exists(ctx, key)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		s, err := uc.commit(ctx, log, repos, key, in, lines)
		if err != nil {
			return err
		}
		created = s
		return nil
	})
	if err != nil {
		if domain.IsClientError(err) {
			return key, metrics.SaleRejected, err
		}
		log.Error().Err(err).Msg("error registrando venta")
		return key, metrics.SaleError, err
	}

	if created == nil {
		log.Info().Msg("venta ya registrada")
		uc.afterCommit(ctx, log, key, nil)
		return key, metrics.SaleDuplicate, nil
	}
	log.Info().Str("total", created.Total.String()).Int64("unidades", created.TotalUnits).Msg("venta registrada")
	uc.afterCommit(ctx, log, key, created)
	return key, metrics.SaleCreated, nil
}

// commit ejecuta la lectura, validación y escritura dentro de la transacción.
func (uc *RegisterSaleUseCase) commit(
	ctx context.Context,
	log zerolog.Logger,
	repos ports.TxRepos,
	key string,
	in SaleInput,
	lines []sale.Line,
) (*entity.Sale, error) {
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}

	// Una consulta por conjunto: el número de idas a la base no depende de la cantidad de productos.
	stock, err := repos.Stock.GetManyForUpdate(ctx, in.WarehouseID, ids)
	if err != nil {
		return nil, err
	}
	products, err := repos.Products.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, l := range lines {
		req := inventory.Request{ProductID: l.ProductID, Name: l.Name, WarehouseID: in.WarehouseID, Quantity: l.Quantity}
		entry := stock[l.ProductID]
		if err := inventory.CheckAvailability(req, products[l.ProductID], entry); err != nil {
			ev := log.Warn().Err(err).Str("producto_id", l.ProductID).Int64("solicitado", l.Quantity)
			if entry != nil {
				ev = ev.Int64("disponible", entry.AvailableQuantity)
			}
			ev.Msg("venta rechazada en validación de stock")
			return nil, err
		}
	}

	warehouseName := in.WarehouseID
	if wh, err := repos.Warehouses.GetByID(ctx, in.WarehouseID); err != nil {
		return nil, err
	} else if wh != nil && wh.Name != "" {
		warehouseName = wh.Name
	}

	now := uc.now()
	total, units := sale.Totals(lines)
	s := &entity.Sale{
		ID:            key,
		LocalID:       sale.NormalizeID(in.LocalSaleID),
		ClientID:      in.ClientID,
		ClientName:    in.ClientName,
		SellerID:      sale.NormalizeID(in.SellerID),
		WarehouseID:   in.WarehouseID,
		PaymentMethod: in.PaymentMethod,
		Comments:      in.Comments,
		Total:         total,
		TotalUnits:    units,
		Status:        entity.SaleStatusPaid,
		Synchronized:  true,
		CreatedAt:     now,
		Items:         make([]entity.SaleItem, 0, len(lines)),
	}
	for _, l := range lines {
		s.Items = append(s.Items, entity.SaleItem{
			ProductID: l.ProductID,
			Name:      displayName(l, products[l.ProductID]),
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			ImageURL:  l.ImageURL,
		})
	}
	if err := repos.Sales.Create(ctx, s); err != nil {
		return nil, err
	}

	for _, item := range s.Items {
		entry := stock[item.ProductID]
		entry.AvailableQuantity -= item.Quantity
		entry.UpdatedAt = now
		if err := repos.Stock.Save(ctx, entry); err != nil {
			return nil, err
		}
		mov := &entity.StockMovement{
			ID:            uuid.New().String(),
			Type:          entity.MovementTypeSale,
			ProductID:     item.ProductID,
			ProductName:   item.Name,
			UnitPrice:     item.UnitPrice,
			Quantity:      -item.Quantity,
			WarehouseID:   in.WarehouseID,
			WarehouseName: warehouseName,
			SellerID:      s.SellerID,
			ClientID:      s.ClientID,
			SaleID:        s.ID,
			CreatedAt:     now,
		}
		if err := repos.Movements.Create(ctx, mov); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// afterCommit recuerda la clave y publica el evento; sus fallos no cambian el resultado.
func (uc *RegisterSaleUseCase) afterCommit(ctx context.Context, log zerolog.Logger, key string, created *entity.Sale) {
	if uc.cache == nil && (uc.publisher == nil || created == nil) {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), postCommitTimeout)
	defer cancel()

	if uc.cache != nil {
		if err := uc.cache.Remember(ctx, key); err != nil {
			log.Warn().Err(err).Msg("no se pudo guardar la venta en caché")
		}
	}
	if uc.publisher != nil && created != nil {
		if err := uc.publisher.PublishSaleRegistered(ctx, dto.NewSaleRegisteredEvent(created)); err != nil {
			log.Warn().Err(err).Msg("no se pudo publicar venta.registrada")
		}
	}
}

// normalize limpia los campos, valida los obligatorios y agrupa las líneas.
func normalize(in *SaleInput) ([]sale.Line, error) {
	in.LocalSaleID = sale.NormalizeID(in.LocalSaleID)
	in.ClientID = sale.NormalizeID(in.ClientID)
	in.SellerID = sale.NormalizeID(in.SellerID)
	in.WarehouseID = sale.NormalizeID(in.WarehouseID)
	in.ClientName = sale.NormalizeID(in.ClientName)
	in.PaymentMethod = sale.NormalizeID(in.PaymentMethod)

	required := []struct{ name, value string }{
		{"localSaleId", in.LocalSaleID},
		{"clienteId", in.ClientID},
		{"clienteNombre", in.ClientName},
		{"metodoPago", in.PaymentMethod},
		{"vendedorId", in.SellerID},
		{"almacenVendedorId", in.WarehouseID},
	}
	for _, f := range required {
		if f.value == "" {
			return nil, domain.Invalid("%s es obligatorio", f.name)
		}
	}
	return sale.GroupLines(in.Lines)
}

func displayName(l sale.Line, p *entity.Product) string {
	if l.Name != "" {
		return l.Name
	}
	if p != nil {
		return p.Name
	}
	return l.ProductID
}
