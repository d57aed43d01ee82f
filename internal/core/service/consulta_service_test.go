package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/costasur/portal-clientes/internal/core/domain"
	"github.com/costasur/portal-clientes/internal/core/ports"
)

func TestCreateConsulta(t *testing.T) {
	gw := &stubGateway{}
	act := &recordedActivity{}
	svc := NewConsultaService(gw, act, zerolog.Nop())
	sess := obraSession()

	err := svc.Create(context.Background(), sess, ports.CreateConsultaInput{
		Nombre:       "  María García  ",
		DNI:          "30123456",
		Asunto:       "Estado de la obra",
		Mensaje:      "Quisiera saber el avance.",
		TipoConsulta: "obra",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gw.consultaCalls != 1 {
		t.Fatalf("expected one backend call, got %d", gw.consultaCalls)
	}
	if gw.consultaData["nombre"] != "María García" {
		t.Fatalf("nombre not trimmed: %q", gw.consultaData["nombre"])
	}
	if gw.consultaData["cliente"] != "cli-4" {
		t.Fatalf("cliente relation: got %v", gw.consultaData["cliente"])
	}
	if len(act.events) != 1 || act.events[0].Type != ports.ActivityConsulta || act.events[0].Detail != "obra" {
		t.Fatalf("unexpected activity: %v", act.events)
	}
}

func TestCreateConsulta_NombreFallsBackToCliente(t *testing.T) {
	gw := &stubGateway{}
	svc := NewConsultaService(gw, &recordedActivity{}, zerolog.Nop())

	err := svc.Create(context.Background(), obraSession(), ports.CreateConsultaInput{
		Asunto:  "Consulta",
		Mensaje: "Mensaje",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gw.consultaData["nombre"] != "María García" {
		t.Fatalf("expected fallback to cliente nombre, got %v", gw.consultaData["nombre"])
	}
	if gw.consultaData["tipoConsulta"] != "general" {
		t.Fatalf("expected default tipo, got %v", gw.consultaData["tipoConsulta"])
	}
}

func TestCreateConsulta_Validation(t *testing.T) {
	cases := []struct {
		name  string
		in    ports.CreateConsultaInput
		field string
	}{
		{"missing asunto", ports.CreateConsultaInput{Nombre: "n", Mensaje: "m"}, "asunto"},
		{"missing mensaje", ports.CreateConsultaInput{Nombre: "n", Asunto: "a"}, "mensaje"},
		{"blank mensaje", ports.CreateConsultaInput{Nombre: "n", Asunto: "a", Mensaje: "   "}, "mensaje"},
		{"unknown tipo", ports.CreateConsultaInput{Nombre: "n", Asunto: "a", Mensaje: "m", TipoConsulta: "otro"}, "tipoConsulta"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw := &stubGateway{}
			svc := NewConsultaService(gw, &recordedActivity{}, zerolog.Nop())

			err := svc.Create(context.Background(), obraSession(), tc.in)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) || ve.Field != tc.field {
				t.Fatalf("expected %s validation error, got %v", tc.field, err)
			}
			if gw.consultaCalls != 0 {
				t.Fatal("invalid input must not reach the backend")
			}
		})
	}
}

func TestCreateConsulta_MissingNombreEverywhere(t *testing.T) {
	sess := obraSession()
	sess.Cliente.Nombre = ""
	svc := NewConsultaService(&stubGateway{}, &recordedActivity{}, zerolog.Nop())

	err := svc.Create(context.Background(), sess, ports.CreateConsultaInput{Asunto: "a", Mensaje: "m"})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Field != "nombre" {
		t.Fatalf("expected nombre validation error, got %v", err)
	}
}

func TestCreateConsulta_NilSession(t *testing.T) {
	svc := NewConsultaService(&stubGateway{}, &recordedActivity{}, zerolog.Nop())
	err := svc.Create(context.Background(), nil, ports.CreateConsultaInput{Asunto: "a", Mensaje: "m"})
	if !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestCreateConsulta_BackendError(t *testing.T) {
	backendErr := &domain.BackendError{StatusCode: 400, Name: "ValidationError", Message: "dni must be a number"}
	gw := &stubGateway{consultaErr: backendErr}
	act := &recordedActivity{}
	svc := NewConsultaService(gw, act, zerolog.Nop())

	err := svc.Create(context.Background(), obraSession(), ports.CreateConsultaInput{
		Nombre: "n", Asunto: "a", Mensaje: "m",
	})
	var be *domain.BackendError
	if !errors.As(err, &be) || be.Message != "dni must be a number" {
		t.Fatalf("expected verbatim backend error, got %v", err)
	}
	if len(act.events) != 0 {
		t.Fatal("no activity on failure")
	}
}
