package service

import (
	"liquidaciontextil/internal/calculo"
	"liquidaciontextil/internal/dto"
	"liquidaciontextil/internal/model"
)

func mapCliente(c *model.Cliente) dto.ClienteResponse {
	return dto.ClienteResponse{
		ID:        c.ID.String(),
		Nombre:    c.Nombre,
		NIT:       c.NIT,
		Telefono:  c.Telefono,
		Email:     c.Email,
		Direccion: c.Direccion,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func mapClienteRef(c *model.Cliente) *dto.ClienteRef {
	if c == nil {
		return nil
	}
	return &dto.ClienteRef{ID: c.ID.String(), Nombre: c.Nombre, NIT: c.NIT, Telefono: c.Telefono}
}

func mapTotales(t calculo.Totales) dto.TotalesResponse {
	return dto.TotalesResponse{
		MetrosIniciales: t.MetrosIniciales,
		ConsumoTotal:    t.ConsumoTotal,
		Diferencia:      t.Diferencia,
	}
}

// mapLiquidacionResumen builds the list row. Totals come from the loaded rollos.
func mapLiquidacionResumen(l *model.Liquidacion) dto.LiquidacionResumen {
	return dto.LiquidacionResumen{
		ID:              l.ID.String(),
		Numero:          l.Numero,
		Fecha:           l.Fecha.Format(dto.FormatoFecha),
		Estado:          string(l.Estado),
		OrdenProduccion: l.OrdenProduccion,
		Referencia:      l.Referencia,
		CreatedAt:       l.CreatedAt,
		Cliente:         mapClienteRef(l.Cliente),
		TotalesResponse: mapTotales(calculo.TotalesLiquidacion(l.Rollos)),
	}
}

func mapLiquidacion(l *model.Liquidacion) dto.LiquidacionResponse {
	resp := dto.LiquidacionResponse{
		ID:              l.ID.String(),
		Numero:          l.Numero,
		Fecha:           l.Fecha.Format(dto.FormatoFecha),
		Estado:          string(l.Estado),
		OrdenProduccion: l.OrdenProduccion,
		Referencia:      l.Referencia,
		Observaciones:   l.Observaciones,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
		Rollos:          make([]dto.RolloResponse, 0, len(l.Rollos)),
		TotalesResponse: mapTotales(calculo.TotalesLiquidacion(l.Rollos)),
	}
	if l.Cliente != nil {
		c := mapCliente(l.Cliente)
		resp.Cliente = &c
	}
	for i := range l.Rollos {
		resp.Rollos = append(resp.Rollos, mapRollo(&l.Rollos[i]))
	}
	return resp
}

func mapRollo(r *model.Rollo) dto.RolloResponse {
	resp := dto.RolloResponse{
		ID:              r.ID.String(),
		LiquidacionID:   r.LiquidacionID.String(),
		Numero:          r.Numero,
		ColorTela:       r.ColorTela,
		ColorHex:        r.ColorHex,
		MetrosIniciales: r.MetrosIniciales,
		Retazos:         r.Retazos,
		Sesgos:          r.Sesgos,
		ConsumoRollo:    calculo.Redondear(calculo.ConsumoRollo(r.Espigas)),
		Espigas:         make([]dto.EspigaResponse, 0, len(r.Espigas)),
	}
	for i := range r.Espigas {
		resp.Espigas = append(resp.Espigas, mapEspiga(&r.Espigas[i]))
	}
	return resp
}

func mapEspiga(e *model.Espiga) dto.EspigaResponse {
	return dto.EspigaResponse{
		ID:                 e.ID.String(),
		RolloID:            e.RolloID.String(),
		Numero:             e.Numero,
		LargoTrazo:         e.LargoTrazo,
		NumeroCapas:        e.NumeroCapas,
		DistribucionTallas: e.Tallas(),
	}
}

func mapConfiguracion(c *model.Configuracion) dto.ConfiguracionResponse {
	return dto.ConfiguracionResponse{
		NombreEmpresa:      c.NombreEmpresa,
		Telefono:           c.Telefono,
		Direccion:          c.Direccion,
		NIT:                c.NIT,
		SiguienteNumero:    c.SiguienteNumero,
		PrefijoLiquidacion: c.PrefijoLiquidacion,
	}
}
