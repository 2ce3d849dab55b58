package driver

import (
	"mirror/internal/hir"
	"mirror/internal/mirror"
)

// unit is one body-bearing item of a program.
type unit struct {
	name     string
	src      mirror.Source
	generics []hir.GenericParam
	fn       *hir.Func // fns and methods
	item     *hir.Item // consts and statics
}

// collectUnits lists the units of m in item order. Functions without a body
// have nothing to lower and are skipped. Methods are named
// "<impl name>::<method>".
func collectUnits(m *hir.Module) []unit {
	var units []unit
	for _, it := range m.Items {
		switch it.Kind {
		case hir.ItemFn:
			if it.Fn == nil || !it.Fn.HasBody() {
				continue
			}
			units = append(units, unit{name: it.Name, src: mirror.FnSource(it.ID), generics: it.Fn.GenericParams, fn: it.Fn})
		case hir.ItemImpl:
			if it.Impl == nil {
				continue
			}
			for _, fn := range it.Impl.Methods {
				if !fn.HasBody() {
					continue
				}
				units = append(units, unit{name: it.Name + "::" + fn.Name, src: mirror.FnSource(fn.ID), generics: fn.GenericParams, fn: fn})
			}
		case hir.ItemConst:
			units = append(units, unit{name: it.Name, src: mirror.ConstSource(it.ID), item: it})
		case hir.ItemStatic:
			units = append(units, unit{name: it.Name, src: mirror.StaticSource(it.ID), item: it})
		}
	}
	return units
}
