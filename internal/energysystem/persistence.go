package energysystem

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/brianmickel/adequacy/internal/engineerr"
	"github.com/brianmickel/adequacy/internal/tsarray"
	"github.com/brianmickel/adequacy/internal/units"
)

// ManifestVersion is bumped whenever the on-disk unit record shape changes,
// per §6's forward-compatibility requirement.
const ManifestVersion = 1

type manifest struct {
	Version int             `yaml:"version"`
	Units   []manifestEntry `yaml:"units"`
}

type manifestEntry struct {
	ID   int    `yaml:"id"`
	Kind string `yaml:"kind"`
}

type seriesRecord struct {
	Times  []time.Time `yaml:"time"`
	Values []float64   `yaml:"value"`
}

type unitRecord struct {
	Kind string `yaml:"kind"`

	Demand *struct {
		HourlyDemand seriesRecord `yaml:"hourly_demand"`
	} `yaml:"demand,omitempty"`

	Static *struct {
		NameplateCapacity float64      `yaml:"nameplate_capacity"`
		HourlyCapacity    seriesRecord `yaml:"hourly_capacity"`
	} `yaml:"static,omitempty"`

	Stochastic *struct {
		NameplateCapacity      float64      `yaml:"nameplate_capacity"`
		HourlyCapacity         seriesRecord `yaml:"hourly_capacity"`
		HourlyForcedOutageRate seriesRecord `yaml:"hourly_forced_outage_rate"`
	} `yaml:"stochastic,omitempty"`

	Storage *struct {
		NameplateCapacity   float64 `yaml:"nameplate_capacity"`
		ChargeRateMW        float64 `yaml:"charge_rate_mw"`
		DischargeRateMW     float64 `yaml:"discharge_rate_mw"`
		ChargeCapacityMWh   float64 `yaml:"charge_capacity_mwh"`
		RoundTripEfficiency float64 `yaml:"roundtrip_efficiency"`
	} `yaml:"storage,omitempty"`
}

func toSeriesRecord(s tsarray.Series) seriesRecord {
	return seriesRecord{Times: s.Times(), Values: s.Values()}
}

func fromSeriesRecord(r seriesRecord) (tsarray.Series, error) {
	return tsarray.NewSeries(r.Times, r.Values)
}

// Save writes the system to dir: a manifest.yaml plus one unit_<id>.yaml
// per unit. dir is created if it does not exist.
func (s System) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("energysystem: create dir %s: %w: %w", dir, err, engineerr.ErrPersistence)
	}

	m := manifest{Version: ManifestVersion}
	for _, u := range s.Units() {
		m.Units = append(m.Units, manifestEntry{ID: u.ID, Kind: u.Kind.String()})

		rec, err := toUnitRecord(u)
		if err != nil {
			return fmt.Errorf("energysystem: encode unit %d: %w", u.ID, err)
		}
		raw, err := yaml.Marshal(rec)
		if err != nil {
			return fmt.Errorf("energysystem: marshal unit %d: %w: %w", u.ID, err, engineerr.ErrPersistence)
		}
		path := filepath.Join(dir, fmt.Sprintf("unit_%d.yaml", u.ID))
		if err := os.WriteFile(path, raw, 0o644); err != nil {
			return fmt.Errorf("energysystem: write unit %d: %w: %w", u.ID, err, engineerr.ErrPersistence)
		}
	}

	raw, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("energysystem: marshal manifest: %w: %w", err, engineerr.ErrPersistence)
	}
	if err := os.WriteFile(filepath.Join(dir, "manifest.yaml"), raw, 0o644); err != nil {
		return fmt.Errorf("energysystem: write manifest: %w: %w", err, engineerr.ErrPersistence)
	}
	return nil
}

// Load reconstructs a System previously written by Save.
func Load(dir string) (System, error) {
	raw, err := os.ReadFile(filepath.Join(dir, "manifest.yaml"))
	if err != nil {
		return System{}, fmt.Errorf("energysystem: read manifest: %w: %w", err, engineerr.ErrPersistence)
	}
	var m manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return System{}, fmt.Errorf("energysystem: parse manifest: %w: %w", err, engineerr.ErrPersistence)
	}
	if m.Version > ManifestVersion {
		return System{}, fmt.Errorf("energysystem: manifest version %d newer than supported %d: %w", m.Version, ManifestVersion, engineerr.ErrPersistence)
	}

	b := NewBuilder()
	for _, entry := range m.Units {
		path := filepath.Join(dir, fmt.Sprintf("unit_%d.yaml", entry.ID))
		raw, err := os.ReadFile(path)
		if err != nil {
			return System{}, fmt.Errorf("energysystem: read unit %d: %w: %w", entry.ID, err, engineerr.ErrPersistence)
		}
		var rec unitRecord
		if err := yaml.Unmarshal(raw, &rec); err != nil {
			return System{}, fmt.Errorf("energysystem: parse unit %d: %w: %w", entry.ID, err, engineerr.ErrPersistence)
		}
		u, err := fromUnitRecord(entry.ID, rec)
		if err != nil {
			return System{}, fmt.Errorf("energysystem: rebuild unit %d: %w", entry.ID, err)
		}
		if err := b.AddUnit(u); err != nil {
			return System{}, fmt.Errorf("energysystem: rebuild system: %w", err)
		}
	}
	return b.Build(), nil
}

func toUnitRecord(u units.Unit) (unitRecord, error) {
	rec := unitRecord{Kind: u.Kind.String()}
	switch u.Kind {
	case units.KindDemand:
		rec.Demand = &struct {
			HourlyDemand seriesRecord `yaml:"hourly_demand"`
		}{HourlyDemand: toSeriesRecord(u.Demand.HourlyDemand)}
	case units.KindStatic:
		rec.Static = &struct {
			NameplateCapacity float64      `yaml:"nameplate_capacity"`
			HourlyCapacity    seriesRecord `yaml:"hourly_capacity"`
		}{NameplateCapacity: u.Static.NameplateCapacity, HourlyCapacity: toSeriesRecord(u.Static.HourlyCapacity)}
	case units.KindStochastic:
		rec.Stochastic = &struct {
			NameplateCapacity      float64      `yaml:"nameplate_capacity"`
			HourlyCapacity         seriesRecord `yaml:"hourly_capacity"`
			HourlyForcedOutageRate seriesRecord `yaml:"hourly_forced_outage_rate"`
		}{
			NameplateCapacity:      u.Stochastic.NameplateCapacity,
			HourlyCapacity:         toSeriesRecord(u.Stochastic.HourlyCapacity),
			HourlyForcedOutageRate: toSeriesRecord(u.Stochastic.HourlyForcedOutageRate),
		}
	case units.KindStorage:
		rec.Storage = &struct {
			NameplateCapacity   float64 `yaml:"nameplate_capacity"`
			ChargeRateMW        float64 `yaml:"charge_rate_mw"`
			DischargeRateMW     float64 `yaml:"discharge_rate_mw"`
			ChargeCapacityMWh   float64 `yaml:"charge_capacity_mwh"`
			RoundTripEfficiency float64 `yaml:"roundtrip_efficiency"`
		}{
			NameplateCapacity:   u.Storage.NameplateCapacity,
			ChargeRateMW:        u.Storage.ChargeRateMW,
			DischargeRateMW:     u.Storage.DischargeRateMW,
			ChargeCapacityMWh:   u.Storage.ChargeCapacityMWh,
			RoundTripEfficiency: u.Storage.RoundTripEfficiency,
		}
	default:
		return unitRecord{}, fmt.Errorf("unknown unit kind %q", u.Kind)
	}
	return rec, nil
}

func fromUnitRecord(id int, rec unitRecord) (units.Unit, error) {
	switch rec.Kind {
	case units.KindDemand.String():
		series, err := fromSeriesRecord(rec.Demand.HourlyDemand)
		if err != nil {
			return units.Unit{}, err
		}
		return units.NewDemandUnit(id, series)
	case units.KindStatic.String():
		series, err := fromSeriesRecord(rec.Static.HourlyCapacity)
		if err != nil {
			return units.Unit{}, err
		}
		return units.NewStaticUnit(id, rec.Static.NameplateCapacity, series)
	case units.KindStochastic.String():
		cap, err := fromSeriesRecord(rec.Stochastic.HourlyCapacity)
		if err != nil {
			return units.Unit{}, err
		}
		rate, err := fromSeriesRecord(rec.Stochastic.HourlyForcedOutageRate)
		if err != nil {
			return units.Unit{}, err
		}
		return units.NewStochasticUnit(id, rec.Stochastic.NameplateCapacity, cap, rate)
	case units.KindStorage.String():
		st := rec.Storage
		return units.NewStorageUnit(id, st.NameplateCapacity, st.ChargeRateMW, st.DischargeRateMW, st.ChargeCapacityMWh, st.RoundTripEfficiency)
	default:
		return units.Unit{}, fmt.Errorf("unknown unit kind %q: %w", rec.Kind, engineerr.ErrPersistence)
	}
}
