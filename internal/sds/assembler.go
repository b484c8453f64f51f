package sds

import (
	"fmt"

	"go.uber.org/zap"
)

// ExtractFunc extracts one field from document text.
type ExtractFunc func(text string) Field

// Extractors maps every extracted column to its extractor. Description and
// Source of Information are filled by the assembler itself.
func Extractors() map[Column]ExtractFunc {
	return map[Column]ExtractFunc{
		ColCASNumber:           ExtractCASNumber,
		ColMaterialName:        ExtractMaterialName,
		ColTradeName:           ExtractTradeName,
		ColPhysicalState:       ExtractPhysicalState,
		ColStaticHazard:        ExtractStaticHazard,
		ColVapourPressure:      ExtractVapourPressure,
		ColFlashPoint:          ExtractFlashPoint,
		ColFlammableLimits:     ExtractFlammableLimits,
		ColMeltingPoint:        ExtractMeltingPoint,
		ColBoilingPoint:        ExtractBoilingPoint,
		ColDensity:             ExtractDensity,
		ColVapourDensity:       ExtractVapourDensity,
		ColIgnitionTemperature: ExtractIgnitionTemperature,
		ColThresholdLimitValue: ExtractThresholdLimitValue,
		ColIDLH:                ExtractIDLH,
		ColLD50:                ExtractLD50,
		ColLC50:                ExtractLC50,
	}
}

// Assembler builds one Record per document.
type Assembler struct {
	logger     *zap.Logger
	extractors map[Column]ExtractFunc
}

// NewAssembler returns an assembler using the built-in extractors.
func NewAssembler(logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{logger: logger, extractors: Extractors()}
}

// Assemble runs every extractor over text. A failing extractor leaves its
// column NotAvailable; every other column is still filled.
func (a *Assembler) Assemble(text, filename string) Record {
	rec := NewRecord()
	rec.Set(ColDescription, Present(DescriptionFromFilename(filename)))
	rec.Set(ColSource, Present(SourceMSDS))

	log := a.logger.With(zap.String("file", filename))
	for _, col := range Columns() {
		fn, ok := a.extractors[col]
		if !ok {
			continue
		}
		f, err := a.run(fn, text)
		if err != nil {
			log.Error("sds: extractor failed", zap.Stringer("column", col), zap.Error(err))
			continue
		}
		rec.Set(col, f)
		if v, ok := f.Value(); ok {
			log.Debug("sds: field found", zap.Stringer("column", col), zap.String("value", v))
		}
	}

	if cas, ok := rec.Get(ColCASNumber).Value(); ok && !ValidCASCheckDigit(cas) {
		log.Debug("sds: CAS check digit mismatch", zap.String("cas", cas))
	}
	return rec
}

func (a *Assembler) run(fn ExtractFunc, text string) (f Field, err error) {
	defer func() {
		if r := recover(); r != nil {
			f, err = NotAvailable, fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(text), nil
}
