package installer

// Compose stack templates rendered against templateData. Volumes are
// prefixed per stack; every service joins the shared overlay network and is
// exposed through traefik labels where a domain applies.

const traefikTemplate = `version: "3.7"
services:
  traefik:
    image: traefik:v2.11
    command:
      - "--providers.docker.swarmMode=true"
      - "--providers.docker.network={{.Network}}"
      - "--entrypoints.web.address=:80"
      - "--entrypoints.websecure.address=:443"
      - "--certificatesresolvers.le.acme.email={{.Email}}"
      - "--certificatesresolvers.le.acme.storage=/certificates/acme.json"
      - "--certificatesresolvers.le.acme.tlschallenge=true"
    ports:
      - "80:80"
      - "443:443"
    volumes:
      - /var/run/docker.sock:/var/run/docker.sock:ro
      - vol_certificates:/certificates
    networks:
      - {{.Network}}
    deploy:
      placement:
        constraints: [node.role == manager]
volumes:
  vol_certificates:
networks:
  {{.Network}}:
    external: true
`

const portainerTemplate = `version: "3.7"
services:
  agent:
    image: portainer/agent:latest
    volumes:
      - /var/run/docker.sock:/var/run/docker.sock
      - /var/lib/docker/volumes:/var/lib/docker/volumes
    networks:
      - {{.Network}}
    deploy:
      mode: global
  portainer:
    image: portainer/portainer-ce:latest
    command: -H tcp://tasks.agent:9001 --tlsskipverify
    volumes:
      - portainer_data:/data
    networks:
      - {{.Network}}
    deploy:
      placement:
        constraints: [node.role == manager]
      labels:
        - "traefik.enable=true"
        - "traefik.http.routers.portainer.rule=Host(` + "`{{.Domain}}`" + `)"
        - "traefik.http.routers.portainer.tls.certresolver=le"
        - "traefik.http.services.portainer.loadbalancer.server.port=9000"
volumes:
  portainer_data:
networks:
  {{.Network}}:
    external: true
`

const redisTemplate = `version: "3.7"
services:
  redis:
    image: redis:7-alpine
    command: redis-server --requirepass {{index .Secrets "password"}}
    volumes:
      - redis_data:/data
    networks:
      - {{.Network}}
volumes:
  redis_data:
networks:
  {{.Network}}:
    external: true
`

const postgresTemplate = `version: "3.7"
services:
  postgres:
    image: postgres:16
    environment:
      - POSTGRES_PASSWORD={{index .Secrets "password"}}
    volumes:
      - postgres_data:/var/lib/postgresql/data
    networks:
      - {{.Network}}
volumes:
  postgres_data:
networks:
  {{.Network}}:
    external: true
`

const pgvectorTemplate = `version: "3.7"
services:
  pgvector:
    image: pgvector/pgvector:pg16
    environment:
      - POSTGRES_PASSWORD={{index .Secrets "password"}}
    volumes:
      - pgvector_data:/var/lib/postgresql/data
    networks:
      - {{.Network}}
volumes:
  pgvector_data:
networks:
  {{.Network}}:
    external: true
`

const minioTemplate = `version: "3.7"
services:
  minio:
    image: minio/minio:latest
    command: server /data --console-address ":9001"
    environment:
      - MINIO_ROOT_USER=admin
      - MINIO_ROOT_PASSWORD={{index .Secrets "root_password"}}
    volumes:
      - minio_data:/data
    networks:
      - {{.Network}}
    deploy:
      labels:
        - "traefik.enable=true"
        - "traefik.http.routers.minio.rule=Host(` + "`{{.Domain}}`" + `)"
        - "traefik.http.routers.minio.tls.certresolver=le"
        - "traefik.http.services.minio.loadbalancer.server.port=9000"
volumes:
  minio_data:
networks:
  {{.Network}}:
    external: true
`

const chatwootTemplate = `version: "3.7"
services:
  chatwoot:
    image: chatwoot/chatwoot:latest
    environment:
      - FRONTEND_URL=https://{{.Domain}}
      - SECRET_KEY_BASE={{index .Secrets "secret_key_base"}}
      - MAILER_SENDER_EMAIL={{.Email}}
    networks:
      - {{.Network}}
    deploy:
      labels:
        - "traefik.enable=true"
        - "traefik.http.routers.chatwoot.rule=Host(` + "`{{.Domain}}`" + `)"
        - "traefik.http.routers.chatwoot.tls.certresolver=le"
        - "traefik.http.services.chatwoot.loadbalancer.server.port=3000"
networks:
  {{.Network}}:
    external: true
`

const directusTemplate = `version: "3.7"
services:
  directus:
    image: directus/directus:latest
    environment:
      - KEY={{index .Secrets "key"}}
      - SECRET={{index .Secrets "secret"}}
      - ADMIN_EMAIL={{.Email}}
      - ADMIN_PASSWORD={{index .Secrets "admin_password"}}
      - PUBLIC_URL=https://{{.Domain}}
    networks:
      - {{.Network}}
    deploy:
      labels:
        - "traefik.enable=true"
        - "traefik.http.routers.directus.rule=Host(` + "`{{.Domain}}`" + `)"
        - "traefik.http.routers.directus.tls.certresolver=le"
        - "traefik.http.services.directus.loadbalancer.server.port=8055"
networks:
  {{.Network}}:
    external: true
`

const n8nTemplate = `version: "3.7"
services:
  n8n:
    image: n8nio/n8n:latest
    environment:
      - N8N_HOST={{.Domain}}
      - N8N_ENCRYPTION_KEY={{index .Secrets "encryption_key"}}
      - WEBHOOK_URL=https://{{.Domain}}/
    volumes:
      - n8n_data:/home/node/.n8n
    networks:
      - {{.Network}}
    deploy:
      labels:
        - "traefik.enable=true"
        - "traefik.http.routers.n8n.rule=Host(` + "`{{.Domain}}`" + `)"
        - "traefik.http.routers.n8n.tls.certresolver=le"
        - "traefik.http.services.n8n.loadbalancer.server.port=5678"
volumes:
  n8n_data:
networks:
  {{.Network}}:
    external: true
`

const grafanaTemplate = `version: "3.7"
services:
  grafana:
    image: grafana/grafana:latest
    environment:
      - GF_SECURITY_ADMIN_PASSWORD={{index .Secrets "admin_password"}}
      - GF_SERVER_ROOT_URL=https://{{.Domain}}
    volumes:
      - grafana_data:/var/lib/grafana
    networks:
      - {{.Network}}
    deploy:
      labels:
        - "traefik.enable=true"
        - "traefik.http.routers.grafana.rule=Host(` + "`{{.Domain}}`" + `)"
        - "traefik.http.routers.grafana.tls.certresolver=le"
        - "traefik.http.services.grafana.loadbalancer.server.port=3000"
volumes:
  grafana_data:
networks:
  {{.Network}}:
    external: true
`

const gowaTemplate = `version: "3.7"
services:
  gowa:
    image: aldinokemal2104/go-whatsapp-web-multidevice:latest
    environment:
      - APP_BASIC_AUTH=admin:{{index .Secrets "basic_auth_password"}}
    volumes:
      - gowa_data:/app/storages
    networks:
      - {{.Network}}
    deploy:
      labels:
        - "traefik.enable=true"
        - "traefik.http.routers.gowa.rule=Host(` + "`{{.Domain}}`" + `)"
        - "traefik.http.routers.gowa.tls.certresolver=le"
        - "traefik.http.services.gowa.loadbalancer.server.port=3000"
volumes:
  gowa_data:
networks:
  {{.Network}}:
    external: true
`

const passboltTemplate = `version: "3.7"
services:
  passbolt:
    image: passbolt/passbolt:latest-ce
    environment:
      - APP_FULL_BASE_URL=https://{{.Domain}}
      - DATASOURCES_DEFAULT_PASSWORD={{index .Secrets "db_password"}}
      - EMAIL_DEFAULT_FROM={{.Email}}
    networks:
      - {{.Network}}
    deploy:
      labels:
        - "traefik.enable=true"
        - "traefik.http.routers.passbolt.rule=Host(` + "`{{.Domain}}`" + `)"
        - "traefik.http.routers.passbolt.tls.certresolver=le"
        - "traefik.http.services.passbolt.loadbalancer.server.port=80"
networks:
  {{.Network}}:
    external: true
`

const evolutionTemplate = `version: "3.7"
services:
  evolution:
    image: atendai/evolution-api:latest
    environment:
      - SERVER_URL=https://{{.Domain}}
      - AUTHENTICATION_API_KEY={{index .Secrets "api_key"}}
    volumes:
      - evolution_data:/evolution/instances
    networks:
      - {{.Network}}
    deploy:
      labels:
        - "traefik.enable=true"
        - "traefik.http.routers.evolution.rule=Host(` + "`{{.Domain}}`" + `)"
        - "traefik.http.routers.evolution.tls.certresolver=le"
        - "traefik.http.services.evolution.loadbalancer.server.port=8080"
volumes:
  evolution_data:
networks:
  {{.Network}}:
    external: true
`
