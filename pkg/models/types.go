package models

import (
	"time"
)

/*
DOMAINE → zones du magasin, rôles et identifiants.
*/

// AreaID identifie une zone nommée du magasin.
type AreaID string

const (
	AreaParking       AreaID = "PARKING"
	AreaSupermarket   AreaID = "SUPERMARKET"
	AreaCashRegisters AreaID = "CASH_REGISTERS"
	AreaButchery      AreaID = "BUTCHERY"
	AreaWarehouse     AreaID = "WAREHOUSE"
	AreaHeadOffice    AreaID = "HEAD_OFFICE"
)

// Areas liste l'ensemble fermé des zones, dans l'ordre de déclaration.
var Areas = []AreaID{
	AreaParking, AreaSupermarket, AreaCashRegisters,
	AreaButchery, AreaWarehouse, AreaHeadOffice,
}

// Role est l'étiquette (énumération fermée) d'un type d'acteur.
type Role string

const (
	RoleManager             Role = "manager"
	RoleCashier             Role = "cashier"
	RoleButcher             Role = "butcher"
	RoleDeliveryWorker      Role = "delivery_worker"
	RoleGeneralWorker       Role = "general_worker"
	RoleSeniorGeneralWorker Role = "senior_general_worker"
	RoleSecurityGuard       Role = "security_guard"
	RoleRepeatCustomer      Role = "repeat_customer"
	RoleOneTimeCustomer     Role = "one_time_customer"
	RoleNoPhone             Role = "no_phone"
	RoleNotPaying           Role = "not_paying"
)

// Roles liste les 11 rôles, employés d'abord puis clients.
var Roles = []Role{
	RoleManager, RoleCashier, RoleButcher, RoleDeliveryWorker,
	RoleGeneralWorker, RoleSeniorGeneralWorker, RoleSecurityGuard,
	RoleRepeatCustomer, RoleOneTimeCustomer, RoleNoPhone, RoleNotPaying,
}

// IDPrefix renvoie le préfixe d'identifiant ("cas" pour cashier).
func (r Role) IDPrefix() string {
	if len(r) < 3 {
		return string(r)
	}
	return string(r[:3])
}

// Point est une coordonnée (latitude, longitude).
type Point struct {
	Lat float64
	Lon float64
}

// AccuracyRange borne la précision annoncée d'un rôle, en mètres.
type AccuracyRange struct {
	Min float64
	Max float64
}

/*
SIMULATION → segments transitoires et lignes de sortie.
*/

// Segment est un intervalle [Start, End] passé dans une zone.
type Segment struct {
	Area  AreaID
	Start time.Time
	End   time.Time
}

// Minutes renvoie la durée entière (tronquée) du segment.
func (s Segment) Minutes() int {
	return int(s.End.Sub(s.Start) / time.Minute)
}

// Ping est une détection de géolocalisation (ligne du fichier geolocation).
type Ping struct {
	DeviceID  string
	Lat       float64
	Lon       float64
	Timestamp time.Time
	AccuracyM float64
	Role      Role
	Area      AreaID
}

// Sale est un ticket de caisse (ligne du fichier log_sales).
type Sale struct {
	SaleID        string
	Timestamp     time.Time
	CustomerID    string
	Subtotal      float64
	Tax           float64
	Total         float64
	PaymentMethod string
}

/*
CONFIG → paramètres d'exécution
*/
// RunConfig contient les paramètres passés au pilote de simulation.
type RunConfig struct {
	Start    time.Time // premier jour inclus
	End      time.Time // dernier jour inclus
	Seed     int64
	Verbose  bool // logs détaillés par jour
	Progress bool // barre de progression sur stderr
}

// Summary résume une exécution.
type Summary struct {
	Days        int
	OpenDays    int
	Pings       int
	Sales       int
	PingsByRole map[Role]int
}
